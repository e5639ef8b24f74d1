package authz

import "github.com/google/uuid"

type ActorKind string

const (
	KindAdmin     ActorKind = "admin"
	KindSupplier  ActorKind = "supplier"
	KindAnonymous ActorKind = "anonymous"
)

// Actor is the resolved caller identity for a single request. Permissions
// only carry meaning for admins; Role distinguishes super_admin from
// permission-gated admins.
type Actor struct {
	Kind        ActorKind
	ID          uuid.UUID
	Role        string
	Permissions map[string]bool
}

func AdminActor(id uuid.UUID, role string, perms map[string]bool) Actor {
	return Actor{Kind: KindAdmin, ID: id, Role: role, Permissions: perms}
}

func SupplierActor(id uuid.UUID) Actor {
	return Actor{Kind: KindSupplier, ID: id}
}

func AnonymousActor() Actor {
	return Actor{Kind: KindAnonymous}
}

func (a Actor) IsAdmin() bool {
	return a.Kind == KindAdmin
}

func (a Actor) IsSuperAdmin() bool {
	return a.Kind == KindAdmin && a.Role == "super_admin"
}
