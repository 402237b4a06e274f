package application

import (
	"context"
	"errors"
	"testing"

	"github.com/kopidesk/identity-service/internal/domain/entity"
)

func adminCaller() *entity.User {
	return &entity.User{ID: "admin-1", Email: "root@x.com", Role: entity.RoleAdmin}
}

func userCaller() *entity.User {
	return &entity.User{ID: "user-1", Email: "u@x.com", Role: entity.RoleUser}
}

func strptr(s string) *string            { return &s }
func roleptr(r entity.Role) *entity.Role { return &r }

func TestCanAdminister(t *testing.T) {
	if err := CanAdminister(adminCaller()); err != nil {
		t.Errorf("admin must pass, got %v", err)
	}
	if err := CanAdminister(userCaller()); !errors.Is(err, ErrInsufficientPermission) {
		t.Errorf("user must be denied, got %v", err)
	}
}

func TestCanUpdate(t *testing.T) {
	tests := []struct {
		name     string
		caller   *entity.User
		targetID string
		mode     UpdateMode
		err      error
	}{
		{"self update allowed as self", userCaller(), "user-1", UpdateModeSelf, nil},
		{"admin on other allowed as admin", adminCaller(), "user-1", UpdateModeAdmin, nil},
		{"admin on self allowed as self", adminCaller(), "admin-1", UpdateModeSelf, nil},
		{"user on other denied", userCaller(), "user-2", 0, ErrInsufficientPermission},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mode, err := CanUpdate(tt.caller, tt.targetID)
			if !errors.Is(err, tt.err) && err != tt.err {
				t.Fatalf("expected err %v, got %v", tt.err, err)
			}
			if err == nil && mode != tt.mode {
				t.Errorf("expected mode %d, got %d", tt.mode, mode)
			}
		})
	}
}

func TestCheckUpdateFields(t *testing.T) {
	role := roleptr(entity.RoleUser)

	if err := CheckUpdateFields(UpdateModeSelf, UpdateUserInput{FullName: strptr("New")}); err != nil {
		t.Errorf("self full_name change must pass, got %v", err)
	}
	// Same-valued role is still a role change attempt.
	if err := CheckUpdateFields(UpdateModeSelf, UpdateUserInput{Role: role}); !errors.Is(err, ErrCannotChangeOwnRole) {
		t.Errorf("self role change must fail, got %v", err)
	}
	if err := CheckUpdateFields(UpdateModeAdmin, UpdateUserInput{FullName: strptr("New"), Role: roleptr(entity.RoleAdmin)}); err != nil {
		t.Errorf("admin may change both fields, got %v", err)
	}
}

func TestUpdateUserSelfPolicy(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	view := signupUser(t, svc, "a@x.com", "A", "password1")
	caller, _ := repo.GetByID(context.Background(), view.ID)

	updated, err := svc.UpdateUser(context.Background(), caller, caller.ID, UpdateUserInput{FullName: strptr("Alice")})
	if err != nil {
		t.Fatalf("self full_name update: %v", err)
	}
	if updated.FullName != "Alice" {
		t.Errorf("expected full name Alice, got %s", updated.FullName)
	}
}

func TestUpdateUserSelfRoleRejectedAtomically(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	view := signupUser(t, svc, "a@x.com", "A", "password1")
	caller, _ := repo.GetByID(context.Background(), view.ID)

	_, err := svc.UpdateUser(context.Background(), caller, caller.ID, UpdateUserInput{
		FullName: strptr("Alice"),
		Role:     roleptr(entity.RoleUser), // same value, still rejected
	})
	if !errors.Is(err, ErrCannotChangeOwnRole) {
		t.Fatalf("expected ErrCannotChangeOwnRole, got %v", err)
	}

	after, _ := repo.GetByID(context.Background(), caller.ID)
	if after.FullName != "A" {
		t.Errorf("rejection must apply no field, full name became %s", after.FullName)
	}
}

func TestUpdateUserAdminChangesRoleAndName(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	view := signupUser(t, svc, "a@x.com", "A", "password1")

	updated, err := svc.UpdateUser(context.Background(), adminCaller(), view.ID, UpdateUserInput{
		FullName: strptr("Promoted"),
		Role:     roleptr(entity.RoleAdmin),
	})
	if err != nil {
		t.Fatalf("admin update: %v", err)
	}
	if updated.FullName != "Promoted" || updated.Role != entity.RoleAdmin {
		t.Errorf("expected both fields applied, got %+v", updated)
	}
}

func TestUpdateUserNonAdminOnOtherDenied(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	a := signupUser(t, svc, "a@x.com", "A", "password1")
	b := signupUser(t, svc, "b@x.com", "B", "password1")

	callerA, _ := repo.GetByID(context.Background(), a.ID)
	if _, err := svc.UpdateUser(context.Background(), callerA, b.ID, UpdateUserInput{FullName: strptr("Hacked")}); !errors.Is(err, ErrInsufficientPermission) {
		t.Errorf("expected ErrInsufficientPermission, got %v", err)
	}
}

func TestUpdateUserMissingTargetIsNotFoundBeforePermission(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	// A plain user updating a nonexistent other id would be denied if the
	// gate ran first; not-found wins.
	if _, err := svc.UpdateUser(context.Background(), userCaller(), "missing-id", UpdateUserInput{FullName: strptr("X")}); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestListUsersAdminOnly(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	signupUser(t, svc, "a@x.com", "A", "password1")
	signupUser(t, svc, "b@x.com", "B", "password1")

	if _, err := svc.ListUsers(context.Background(), userCaller(), 0, 100); !errors.Is(err, ErrInsufficientPermission) {
		t.Errorf("expected ErrInsufficientPermission, got %v", err)
	}

	views, err := svc.ListUsers(context.Background(), adminCaller(), 0, 100)
	if err != nil {
		t.Fatalf("admin list: %v", err)
	}
	if len(views) != 2 {
		t.Errorf("expected 2 users, got %d", len(views))
	}
}

func TestListUsersPagination(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	for _, email := range []string{"a@x.com", "b@x.com", "c@x.com"} {
		signupUser(t, svc, email, "U", "password1")
	}

	page, err := svc.ListUsers(context.Background(), adminCaller(), 1, 1)
	if err != nil {
		t.Fatalf("list page: %v", err)
	}
	if len(page) != 1 {
		t.Errorf("expected 1 user on page, got %d", len(page))
	}
}

func TestGetUserAdminOnly(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	view := signupUser(t, svc, "a@x.com", "A", "password1")

	if _, err := svc.GetUser(context.Background(), userCaller(), view.ID); !errors.Is(err, ErrInsufficientPermission) {
		t.Errorf("expected ErrInsufficientPermission, got %v", err)
	}
	got, err := svc.GetUser(context.Background(), adminCaller(), view.ID)
	if err != nil {
		t.Fatalf("admin get: %v", err)
	}
	if got.ID != view.ID {
		t.Errorf("expected id %s, got %s", view.ID, got.ID)
	}
	if _, err := svc.GetUser(context.Background(), adminCaller(), "missing-id"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestDeleteUserAdminOnly(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	view := signupUser(t, svc, "a@x.com", "A", "password1")

	if err := svc.DeleteUser(context.Background(), userCaller(), view.ID); !errors.Is(err, ErrInsufficientPermission) {
		t.Errorf("expected ErrInsufficientPermission, got %v", err)
	}
	if err := svc.DeleteUser(context.Background(), adminCaller(), view.ID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	if err := svc.DeleteUser(context.Background(), adminCaller(), view.ID); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound after delete, got %v", err)
	}
}
