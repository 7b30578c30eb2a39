// Package workflow owns the task lifecycle: the primary status and the two
// independent request tracks (completion approval, deadline extension).
//
// The Apply* functions are the functional core. They mutate a task in memory,
// take the current time as an argument and perform no I/O. Service runs them
// inside the store's atomic update so each operation is one record mutation.
package workflow

import (
	"time"

	"project-tracker-api/internal/models"

	"github.com/pkg/errors"
)

// CompletionAction is a director's answer to a completion request
type CompletionAction string

const (
	ActionApprove CompletionAction = "approve"
	ActionReject  CompletionAction = "reject"
)

// CompletionResponse carries the answer to a completion request.
// WorkDone, when set, is stored as given; callers conventionally send 100 on approval.
type CompletionResponse struct {
	Action   CompletionAction
	Comment  string
	WorkDone *int
}

// ExtensionRequest proposes a new deadline
type ExtensionRequest struct {
	NewDeadline time.Time
	Reason      string
}

// ExtensionResponse records the decision on a deadline proposal
type ExtensionResponse struct {
	Status  models.RequestStatus
	Comment string
}

// TaskPatch lists the directly editable fields. Nil fields are left alone.
// CompletedDate is deliberately absent: it follows Status.
type TaskPatch struct {
	Title                 *string
	Description           *string
	ProjectID             *string
	AssigneeID            *string
	Priority              *models.TaskPriority
	Status                *models.TaskStatus
	EstimatedHours        *float64
	ActualHours           *float64
	StartDate             *time.Time
	DueDate               *time.Time
	IsLocked              *bool
	DirectorInputRequired *bool
	WorkDone              *int
}

// SelfServiceOnly reports whether the patch only touches the fields an
// assignee may edit on their own task (status, progress, time spent).
func (p TaskPatch) SelfServiceOnly() bool {
	return p.Title == nil && p.Description == nil && p.ProjectID == nil &&
		p.AssigneeID == nil && p.Priority == nil && p.EstimatedHours == nil &&
		p.StartDate == nil && p.DueDate == nil && p.IsLocked == nil &&
		p.DirectorInputRequired == nil
}

// ApplyCompletionRequest marks a completion request as pending.
// Re-requesting while a request is pending re-stamps the requester.
func ApplyCompletionRequest(t *models.Task, requestedBy string, at time.Time) error {
	if t.Status == models.StatusCompleted {
		return errors.Wrapf(ErrInvalidTransition, "task %s is already completed", t.ID)
	}
	t.CompletionRequestStatus = models.RequestPending
	t.CompletionRequestedBy = requestedBy
	t.CompletionRequestedAt = &at
	return nil
}

// ApplyCompletionResponse records an approval or rejection.
// Approval completes the task; the first completion date is kept if the
// approval is applied again. Rejection never touches the primary status.
// A response is accepted whether or not a request is pending.
func ApplyCompletionResponse(t *models.Task, resp CompletionResponse, respondedBy string, at time.Time) error {
	switch resp.Action {
	case ActionApprove:
		t.CompletionRequestStatus = models.RequestApproved
		if t.Status != models.StatusCompleted || t.CompletedDate == nil {
			t.Status = models.StatusCompleted
			t.CompletedDate = &at
		}
	case ActionReject:
		t.CompletionRequestStatus = models.RequestRejected
	default:
		return errors.Wrapf(ErrInvalidTransition, "unknown completion action %q", resp.Action)
	}

	t.CompletionResponseBy = respondedBy
	t.CompletionResponseAt = &at
	t.CompletionResponseComment = resp.Comment
	if resp.WorkDone != nil {
		t.WorkDone = *resp.WorkDone
	}
	return nil
}

// SettleCompletionRequest approves a pending completion request on a task
// that was completed directly, so the request does not stay open.
func SettleCompletionRequest(t *models.Task, by string, at time.Time) {
	if t.CompletionRequestStatus != models.RequestPending {
		return
	}
	t.CompletionRequestStatus = models.RequestApproved
	t.CompletionResponseBy = by
	t.CompletionResponseAt = &at
}

// ApplyExtensionRequest stores a deadline proposal as pending.
// A previous decision is cleared so it cannot be mistaken for an answer to this proposal.
func ApplyExtensionRequest(t *models.Task, req ExtensionRequest, requestedBy string, at time.Time) error {
	deadline := req.NewDeadline
	t.ExtensionRequestStatus = models.RequestPending
	t.NewDeadlineProposal = &deadline
	t.ReasonForExtension = req.Reason
	t.ExtensionRequestedBy = requestedBy
	t.ExtensionRequestDate = &at
	t.ExtensionResponseBy = ""
	t.ExtensionResponseAt = nil
	t.ExtensionResponseComment = ""
	return nil
}

// ApplyExtensionResponse records the decision on a deadline proposal.
// The due date is not changed; applying an accepted deadline is a separate update.
func ApplyExtensionResponse(t *models.Task, resp ExtensionResponse, respondedBy string, at time.Time) error {
	if resp.Status != models.RequestApproved && resp.Status != models.RequestRejected {
		return errors.Wrapf(ErrInvalidTransition, "extension response must be Approved or Rejected, got %q", resp.Status)
	}
	t.ExtensionRequestStatus = resp.Status
	t.ExtensionResponseBy = respondedBy
	t.ExtensionResponseAt = &at
	t.ExtensionResponseComment = resp.Comment
	return nil
}

// ApplyStatus changes the primary status directly.
// Completed is terminal; entering it stamps the completion date.
func ApplyStatus(t *models.Task, status models.TaskStatus, at time.Time) error {
	if !status.Valid() {
		return errors.Wrapf(ErrInvalidTransition, "unknown status %q", status)
	}
	if t.Status == status {
		return nil
	}
	if t.Status == models.StatusCompleted {
		return errors.Wrapf(ErrInvalidTransition, "task %s is completed and cannot move to %s", t.ID, status)
	}
	t.Status = status
	if status == models.StatusCompleted {
		t.CompletedDate = &at
	}
	return nil
}

// ApplyPatch applies the set fields of p. Status goes through ApplyStatus.
func ApplyPatch(t *models.Task, p TaskPatch, at time.Time) error {
	if p.Priority != nil && !p.Priority.Valid() {
		return errors.Wrapf(ErrInvalidTransition, "unknown priority %q", *p.Priority)
	}
	if p.Status != nil {
		if err := ApplyStatus(t, *p.Status, at); err != nil {
			return err
		}
	}
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.ProjectID != nil {
		t.ProjectID = *p.ProjectID
	}
	if p.AssigneeID != nil {
		t.AssigneeID = *p.AssigneeID
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.EstimatedHours != nil {
		t.EstimatedHours = *p.EstimatedHours
	}
	if p.ActualHours != nil {
		t.ActualHours = *p.ActualHours
	}
	if p.StartDate != nil {
		start := *p.StartDate
		t.StartDate = &start
	}
	if p.DueDate != nil {
		due := *p.DueDate
		t.DueDate = &due
	}
	if p.IsLocked != nil {
		t.IsLocked = *p.IsLocked
	}
	if p.DirectorInputRequired != nil {
		t.DirectorInputRequired = *p.DirectorInputRequired
	}
	if p.WorkDone != nil {
		t.WorkDone = *p.WorkDone
	}
	return nil
}

// CheckInvariants reports a task whose completion date disagrees with its status
func CheckInvariants(t *models.Task) error {
	completed := t.Status == models.StatusCompleted
	if completed != (t.CompletedDate != nil) {
		return errors.Errorf("task %s: status %s with completedDate set=%v", t.ID, t.Status, t.CompletedDate != nil)
	}
	return nil
}
