package authz

import (
	"encoding/json"
	"fmt"
	"os"
)

type Action string

const (
	ActionDocumentModerate Action = "document_moderate"
	ActionDocumentView     Action = "document_view"
	ActionRatingModerate   Action = "rating_moderate"
	ActionRatingView       Action = "rating_view"
	ActionReportModerate   Action = "report_moderate"
	ActionReportView       Action = "report_view"
	ActionSettingsManage   Action = "settings_manage"
	ActionOwnProfileUpdate Action = "own_profile_update"
)

const (
	CapContentSupervise = "content_management_supervise"
	CapContentView      = "content_management_view"
	CapUserEdit         = "user_management_edit"
	CapUserDelete       = "user_management_delete"
	CapUserFull         = "user_management_full"
)

// Policy enumerates every capability with an explicit default and maps each
// gated action to the capability it requires. It is constructed once at boot
// and treated as immutable afterwards.
type Policy struct {
	Version      int               `json:"version"`
	Defaults     map[string]bool   `json:"defaults"`
	Requirements map[Action]string `json:"requirements"`
}

// DefaultPolicy is the compiled-in capability table: everything a
// non-superuser admin can do is off until granted.
func DefaultPolicy() *Policy {
	return &Policy{
		Version: 1,
		Defaults: map[string]bool{
			CapContentSupervise: false,
			CapContentView:      false,
			CapUserEdit:         false,
			CapUserDelete:       false,
			CapUserFull:         false,
		},
		Requirements: map[Action]string{
			ActionDocumentModerate: CapUserEdit,
			ActionDocumentView:     CapContentView,
			ActionRatingModerate:   CapContentSupervise,
			ActionRatingView:       CapContentView,
			ActionReportModerate:   CapContentSupervise,
			ActionReportView:       CapContentView,
			ActionSettingsManage:   CapUserFull,
		},
	}
}

// LoadPolicy reads a policy file, falling back to DefaultPolicy when the
// path is empty. File entries override defaults wholesale per key.
func LoadPolicy(path string) (*Policy, error) {
	policy := DefaultPolicy()
	if path == "" {
		return policy, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}

	var file Policy
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse policy file: %w", err)
	}

	if file.Version != 0 {
		policy.Version = file.Version
	}
	for cap, v := range file.Defaults {
		policy.Defaults[cap] = v
	}
	for action, cap := range file.Requirements {
		policy.Requirements[action] = cap
	}
	return policy, nil
}
