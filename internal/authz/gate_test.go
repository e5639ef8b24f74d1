package authz

import (
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGateDecide(t *testing.T) {
	gate := NewGate(DefaultPolicy())

	tests := []struct {
		name    string
		actor   Actor
		action  Action
		allowed bool
		reason  string
	}{
		{
			name:    "super admin bypasses capability checks",
			actor:   AdminActor(uuid.New(), "super_admin", nil),
			action:  ActionRatingModerate,
			allowed: true,
		},
		{
			name:    "admin with supervision can moderate ratings",
			actor:   AdminActor(uuid.New(), "admin", map[string]bool{CapContentSupervise: true}),
			action:  ActionRatingModerate,
			allowed: true,
		},
		{
			name:    "admin without supervision cannot flag ratings",
			actor:   AdminActor(uuid.New(), "admin", map[string]bool{CapContentView: true}),
			action:  ActionRatingModerate,
			allowed: false,
			reason:  `missing "content_management_supervise" permission`,
		},
		{
			name:    "admin with user_management_full can moderate documents",
			actor:   AdminActor(uuid.New(), "admin", map[string]bool{CapUserFull: true}),
			action:  ActionDocumentModerate,
			allowed: true,
		},
		{
			name:    "admin with empty permission set falls back to defaults",
			actor:   AdminActor(uuid.New(), "admin", map[string]bool{}),
			action:  ActionReportModerate,
			allowed: false,
		},
		{
			name:    "explicit false overrides nothing granted elsewhere",
			actor:   AdminActor(uuid.New(), "admin", map[string]bool{CapContentSupervise: false}),
			action:  ActionReportModerate,
			allowed: false,
		},
		{
			name:    "supplier cannot moderate",
			actor:   SupplierActor(uuid.New()),
			action:  ActionDocumentModerate,
			allowed: false,
			reason:  "admin access required",
		},
		{
			name:    "anonymous cannot view admin lists",
			actor:   AnonymousActor(),
			action:  ActionReportView,
			allowed: false,
			reason:  "admin access required",
		},
		{
			name:    "supplier may update own profile without permissions",
			actor:   SupplierActor(uuid.New()),
			action:  ActionOwnProfileUpdate,
			allowed: true,
		},
		{
			name:    "admin may update own profile without permissions",
			actor:   AdminActor(uuid.New(), "admin", nil),
			action:  ActionOwnProfileUpdate,
			allowed: true,
		},
		{
			name:    "anonymous may not update a profile",
			actor:   AnonymousActor(),
			action:  ActionOwnProfileUpdate,
			allowed: false,
			reason:  "authentication required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := gate.Decide(tt.actor, tt.action)
			assert.Equal(t, tt.allowed, d.Allowed)
			if tt.reason != "" {
				assert.Equal(t, tt.reason, d.Reason)
			}
		})
	}
}

func TestPolicyFileOverrides(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/permissions.json"
	content := `{
		"version": 3,
		"defaults": {"content_management_view": true},
		"requirements": {"report_moderate": "user_management_full"}
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	policy, err := LoadPolicy(path)
	require.NoError(t, err)
	assert.Equal(t, 3, policy.Version)
	assert.True(t, policy.Defaults[CapContentView])
	assert.Equal(t, CapUserFull, policy.Requirements[ActionReportModerate])
	// Untouched entries keep compiled defaults.
	assert.Equal(t, CapContentSupervise, policy.Requirements[ActionRatingModerate])

	gate := NewGate(policy)
	viewer := AdminActor(uuid.New(), "admin", nil)
	assert.True(t, gate.Decide(viewer, ActionRatingView).Allowed)
	assert.False(t, gate.Decide(viewer, ActionReportModerate).Allowed)
}

func TestLoadPolicyMissingFile(t *testing.T) {
	_, err := LoadPolicy("/nonexistent/permissions.json")
	assert.Error(t, err)

	policy, err := LoadPolicy("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPolicy().Version, policy.Version)
}
