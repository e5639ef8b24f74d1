package authz

import "fmt"

type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// Gate decides whether an actor may perform an action. Decide is pure and
// must run before any handler side effect; a denial is terminal for the
// request.
type Gate struct {
	policy *Policy
}

func NewGate(policy *Policy) *Gate {
	return &Gate{policy: policy}
}

func (g *Gate) Decide(actor Actor, action Action) Decision {
	// Self-service carve-out: any authenticated account of the correct type
	// may act on its own profile, no permission set consulted.
	if action == ActionOwnProfileUpdate {
		if actor.Kind == KindAnonymous {
			return deny("authentication required")
		}
		return allow()
	}

	if !actor.IsAdmin() {
		return deny("admin access required")
	}

	if actor.IsSuperAdmin() {
		return allow()
	}

	required, ok := g.policy.Requirements[action]
	if !ok {
		return deny(fmt.Sprintf("no capability mapped for action %q", action))
	}

	if g.granted(actor, required) {
		return allow()
	}
	return deny(fmt.Sprintf("missing %q permission", required))
}

// granted merges the actor's stored permission set over the policy defaults.
// user_management_full satisfies the narrower edit/delete capabilities.
func (g *Gate) granted(actor Actor, capability string) bool {
	if g.lookup(actor, capability) {
		return true
	}
	if capability == CapUserEdit || capability == CapUserDelete {
		return g.lookup(actor, CapUserFull)
	}
	return false
}

func (g *Gate) lookup(actor Actor, capability string) bool {
	if v, ok := actor.Permissions[capability]; ok {
		return v
	}
	return g.policy.Defaults[capability]
}
