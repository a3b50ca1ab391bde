// Package orderstate defines which order status changes are legal and which
// role may perform them.
package orderstate

import (
	"fmt"
	"strings"

	"github.com/example/homechef/internal/models"
)

// Transition describes one allowed state change and the role that may drive it.
type Transition struct {
	From models.OrderStatus
	To   models.OrderStatus
	Role models.Role
}

// transitions is the authoritative table. Chefs move orders forward one step
// at a time and may reject a pending order; consumers may only cancel while
// the order is still pending.
var transitions = []Transition{
	{From: models.StatusPending, To: models.StatusConfirmed, Role: models.RoleChef},
	{From: models.StatusPending, To: models.StatusCancelled, Role: models.RoleChef},
	{From: models.StatusPending, To: models.StatusCancelled, Role: models.RoleConsumer},
	{From: models.StatusConfirmed, To: models.StatusPreparing, Role: models.RoleChef},
	{From: models.StatusPreparing, To: models.StatusReady, Role: models.RoleChef},
	{From: models.StatusReady, To: models.StatusDelivered, Role: models.RoleChef},
}

type transitionKey struct {
	From models.OrderStatus
	To   models.OrderStatus
	Role models.Role
}

var transitionSet = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool, len(transitions))
	for _, t := range transitions {
		m[transitionKey{t.From, t.To, t.Role}] = true
	}
	return m
}()

// IsValidStatus reports whether s is one of the six known statuses.
func IsValidStatus(s models.OrderStatus) bool {
	switch s {
	case models.StatusPending, models.StatusConfirmed, models.StatusPreparing,
		models.StatusReady, models.StatusDelivered, models.StatusCancelled:
		return true
	}
	return false
}

// NextStatuses returns the statuses the given role may move to from the
// current one.
func NextStatuses(from models.OrderStatus, role models.Role) []models.OrderStatus {
	var next []models.OrderStatus
	for _, t := range transitions {
		if t.From == from && t.Role == role {
			next = append(next, t.To)
		}
	}
	return next
}

// CanTransition returns nil when role may move an order from one status to
// another, or an error naming the legal next statuses.
func CanTransition(from, to models.OrderStatus, role models.Role) error {
	if transitionSet[transitionKey{from, to, role}] {
		return nil
	}

	next := NextStatuses(from, role)
	if len(next) == 0 {
		return fmt.Errorf("cannot change status from %s: no transitions available for %s", from, role)
	}

	labels := make([]string, len(next))
	for i, s := range next {
		labels[i] = string(s)
	}
	return fmt.Errorf("cannot change status from %s to %s: allowed next statuses are %s",
		from, to, strings.Join(labels, ", "))
}
