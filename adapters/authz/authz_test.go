package authz_test

import (
	"context"
	"testing"

	"github.com/jasonkiller200/Todothis/adapters/authz"
	"github.com/jasonkiller200/Todothis/core"
)

type fakeDirectory map[string]core.User

func (d fakeDirectory) GetUser(_ context.Context, key string) (core.User, error) {
	u, ok := d[key]
	if !ok {
		return core.User{}, core.ErrUserNotFound
	}
	return u, nil
}

func testDirectory() fakeDirectory {
	return fakeDirectory{
		"admin":    {Key: "admin", Level: "admin"},
		"director": {Key: "director", Level: "executive-manager"},
		"plant1":   {Key: "plant1", Level: "plant-manager", Department: "management", Unit: "plant-one"},
		"chief1": {
			Key: "chief1", Level: "section-chief",
			Department: "plant-one", Unit: "assembly-one",
		},
		"deputy1": {
			Key: "deputy1", Level: "deputy-section-chief",
			Department: "plant-one", Unit: "assembly-one",
		},
		"lead1": {
			Key: "lead1", Level: "team-leader",
			Department: "plant-one", Unit: "assembly-one",
		},
		"lead2": {
			Key: "lead2", Level: "team-leader",
			Department: "plant-one", Unit: "assembly-two",
		},
		"worker1": {
			Key: "worker1", Level: "staff",
			Department: "plant-one", Unit: "assembly-one",
		},
	}
}

func TestCanAssign(t *testing.T) {
	t.Parallel()

	a := authz.New(testDirectory())

	cases := []struct {
		name   string
		actor  string
		target string
		want   bool
	}{
		{"self assignment always allowed", "worker1", "worker1", true},
		{"admin assigns to anyone", "admin", "worker1", true},
		{"admin cannot assign to admin", "admin", "admin", true}, // self case
		{"director assigns downward", "director", "chief1", true},
		{"director cannot assign to admin", "director", "admin", false},
		{"plant manager within managed plant", "plant1", "chief1", true},
		{"plant manager cannot reach upward", "plant1", "director", false},
		{"section chief within own unit", "chief1", "worker1", true},
		{"section chief across units", "chief1", "lead2", false},
		{"deputy within own unit", "deputy1", "lead1", true},
		{"deputy cannot assign to chief", "deputy1", "chief1", false},
		{"team leader has no rights", "lead1", "worker1", false},
		{"staff has no rights", "worker1", "lead1", false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := a.CanAssign(context.Background(), tc.actor, tc.target)
			if err != nil {
				t.Fatalf("CanAssign returned error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("CanAssign(%s, %s) = %v, want %v", tc.actor, tc.target, got, tc.want)
			}
		})
	}
}

func TestCanAssign_UnknownUser(t *testing.T) {
	t.Parallel()

	a := authz.New(testDirectory())

	if _, err := a.CanAssign(context.Background(), "ghost", "worker1"); err == nil {
		t.Fatal("expected error for unknown actor")
	}
}

func TestCanModify(t *testing.T) {
	t.Parallel()

	a := authz.New(testDirectory())

	todo := core.Todo{AssigneeKey: "worker1", AssignerKey: "chief1"}

	if ok, err := a.CanModify(context.Background(), "worker1", todo); err != nil || !ok {
		t.Fatalf("assignee should modify own todo: ok=%v err=%v", ok, err)
	}
	if ok, err := a.CanModify(context.Background(), "chief1", todo); err != nil || !ok {
		t.Fatalf("assigner should modify the todo: ok=%v err=%v", ok, err)
	}
	if ok, err := a.CanModify(context.Background(), "deputy1", todo); err != nil || !ok {
		t.Fatalf("senior in scope should modify: ok=%v err=%v", ok, err)
	}
	if ok, err := a.CanModify(context.Background(), "lead2", todo); err != nil || ok {
		t.Fatalf("peer outside scope must not modify: ok=%v err=%v", ok, err)
	}
}
