package identity

import (
	"testing"

	"project-tracker-api/internal/models"

	"github.com/google/uuid"
)

func TestCapabilities(t *testing.T) {
	tests := []struct {
		role       models.Role
		wantCreate bool
		wantApprov bool
		wantAll    bool
	}{
		{models.RoleDirector, true, true, true},
		{models.RoleProjectHead, true, false, true},
		{models.RoleEmployee, false, false, false},
		{models.Role("Intern"), false, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			if got := CanCreateTask(tt.role); got != tt.wantCreate {
				t.Errorf("CanCreateTask = %v, want %v", got, tt.wantCreate)
			}
			if got := CanApprove(tt.role); got != tt.wantApprov {
				t.Errorf("CanApprove = %v, want %v", got, tt.wantApprov)
			}
			if got := CanViewAll(tt.role); got != tt.wantAll {
				t.Errorf("CanViewAll = %v, want %v", got, tt.wantAll)
			}
		})
	}
}

type objectID [3]byte

func (o objectID) String() string { return "abc123" }

func TestNormalizeID(t *testing.T) {
	u := uuid.MustParse("9b2f7c1e-8d3a-4c55-9f0e-2a1b3c4d5e6f")
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"plain string", "emp-1", "emp-1"},
		{"padded string", "  emp-1 ", "emp-1"},
		{"bytes", []byte("emp-2"), "emp-2"},
		{"uuid", u, "9b2f7c1e-8d3a-4c55-9f0e-2a1b3c4d5e6f"},
		{"uuid pointer", &u, "9b2f7c1e-8d3a-4c55-9f0e-2a1b3c4d5e6f"},
		{"nil uuid pointer", (*uuid.UUID)(nil), ""},
		{"stringer", objectID{}, "abc123"},
		{"int", 42, "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeID(tt.in); got != tt.want {
				t.Errorf("NormalizeID = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsSelf(t *testing.T) {
	u := uuid.New()
	if !IsSelf(u, u.String()) {
		t.Errorf("expected uuid and its string form to match")
	}
	if IsSelf("", "") {
		t.Errorf("empty ids must never match")
	}
	if IsSelf("emp-1", "emp-2") {
		t.Errorf("different ids must not match")
	}
}

func TestCanAccessTask(t *testing.T) {
	task := &models.Task{ID: "t1", AssigneeID: "emp-7"}

	if !CanAccessTask(Principal{ID: "emp-7", Role: models.RoleEmployee}, task) {
		t.Errorf("assignee should access own task")
	}
	if CanAccessTask(Principal{ID: "emp-8", Role: models.RoleEmployee}, task) {
		t.Errorf("other employee should not access task")
	}
	if !CanAccessTask(Principal{ID: "ph-1", Role: models.RoleProjectHead}, task) {
		t.Errorf("project head should access every task")
	}
	if CanAccessTask(Principal{ID: "emp-7", Role: models.RoleEmployee}, &models.Task{ID: "t2"}) {
		t.Errorf("unassigned task should not be visible to an employee")
	}
}
