package orders

import (
	"fmt"

	"github.com/campuskart/campuskart-backend/pkg/enums"
	pkgerrors "github.com/campuskart/campuskart-backend/pkg/errors"
)

// ownership names the relationship an actor must hold to the order for a
// transition rule to apply.
type ownership int

const (
	ownershipNone ownership = iota
	ownershipCustomer
	ownershipVendor
	ownershipAssignedAgent
)

// effect names the side effect a transition rule carries beyond the status
// write itself.
type effect int

const (
	effectNone effect = iota
	// effectClaim assigns the acting user as the order's delivery agent,
	// guarded against an already-claimed order.
	effectClaim
	// effectPayout credits the agent and vendor shares once the order is
	// delivered, when the order has been paid.
	effectPayout
)

type edgeKey struct {
	from enums.OrderStatus
	to   enums.OrderStatus
}

// machineEdges is the full lifecycle graph, independent of who is acting.
// A target outside this graph is a state conflict for every role, admin
// included.
var machineEdges = map[edgeKey]struct{}{
	{enums.OrderStatusPending, enums.OrderStatusAccepted}:              {},
	{enums.OrderStatusPending, enums.OrderStatusCancelled}:             {},
	{enums.OrderStatusAccepted, enums.OrderStatusAgentRequested}:       {},
	{enums.OrderStatusAccepted, enums.OrderStatusCancelled}:            {},
	{enums.OrderStatusAgentRequested, enums.OrderStatusOutForDelivery}: {},
	{enums.OrderStatusAgentRequested, enums.OrderStatusDelivered}:      {},
	{enums.OrderStatusOutForDelivery, enums.OrderStatusDelivered}:      {},
}

type grantKey struct {
	role enums.Role
	from enums.OrderStatus
	to   enums.OrderStatus
}

type grant struct {
	ownership ownership
	effect    effect
}

// grants is the authorization table: every legal (role, from, to) edge with
// the ownership requirement and side effect it carries. Admin is absent here
// and handled separately: any machine edge, no ownership requirement.
var grants = map[grantKey]grant{
	// customer may only cancel while still pending
	{enums.RoleUser, enums.OrderStatusPending, enums.OrderStatusCancelled}: {ownership: ownershipCustomer},

	// any user or agent can claim an unassigned accepted order
	{enums.RoleUser, enums.OrderStatusAccepted, enums.OrderStatusAgentRequested}:  {effect: effectClaim},
	{enums.RoleAgent, enums.OrderStatusAccepted, enums.OrderStatusAgentRequested}: {effect: effectClaim},

	// only the assigned agent completes delivery
	{enums.RoleUser, enums.OrderStatusAgentRequested, enums.OrderStatusDelivered}:  {ownership: ownershipAssignedAgent, effect: effectPayout},
	{enums.RoleAgent, enums.OrderStatusAgentRequested, enums.OrderStatusDelivered}: {ownership: ownershipAssignedAgent, effect: effectPayout},
	{enums.RoleUser, enums.OrderStatusOutForDelivery, enums.OrderStatusDelivered}:  {ownership: ownershipAssignedAgent, effect: effectPayout},
	{enums.RoleAgent, enums.OrderStatusOutForDelivery, enums.OrderStatusDelivered}: {ownership: ownershipAssignedAgent, effect: effectPayout},

	// vendor decides pending orders and approves the claiming agent
	{enums.RoleVendor, enums.OrderStatusPending, enums.OrderStatusAccepted}:              {ownership: ownershipVendor},
	{enums.RoleVendor, enums.OrderStatusPending, enums.OrderStatusCancelled}:             {ownership: ownershipVendor},
	{enums.RoleVendor, enums.OrderStatusAgentRequested, enums.OrderStatusOutForDelivery}: {ownership: ownershipVendor},
}

// resolveTransition checks the machine graph and the authorization table for
// the requested edge, returning the grant that applies.
func resolveTransition(role enums.Role, from, to enums.OrderStatus) (grant, error) {
	if from == to {
		return grant{}, pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("order is already %s", from))
	}
	if from.IsTerminal() {
		return grant{}, pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("order is %s and cannot change", from))
	}
	if _, ok := machineEdges[edgeKey{from, to}]; !ok {
		if to == enums.OrderStatusOutForDelivery {
			return grant{}, pkgerrors.New(pkgerrors.CodeStateConflict, "order must be claimed by an agent before delivery starts")
		}
		return grant{}, pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("cannot move order from %s to %s", from, to))
	}

	if role == enums.RoleAdmin {
		return grant{effect: effectForEdge(from, to)}, nil
	}

	g, ok := grants[grantKey{role, from, to}]
	if !ok {
		if to == enums.OrderStatusOutForDelivery && (role == enums.RoleUser || role == enums.RoleAgent) {
			return grant{}, pkgerrors.New(pkgerrors.CodeForbidden, "wait for vendor approval before starting delivery")
		}
		return grant{}, pkgerrors.New(pkgerrors.CodeForbidden, fmt.Sprintf("role %s may not move order from %s to %s", role, from, to))
	}
	return g, nil
}

// effectForEdge gives admin transitions the same side effects the owning
// role would trigger, so an admin-driven claim still assigns an agent and an
// admin-driven delivery still pays out.
func effectForEdge(from, to enums.OrderStatus) effect {
	switch {
	case from == enums.OrderStatusAccepted && to == enums.OrderStatusAgentRequested:
		return effectClaim
	case to == enums.OrderStatusDelivered:
		return effectPayout
	default:
		return effectNone
	}
}
