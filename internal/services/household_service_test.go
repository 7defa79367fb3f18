package services

import (
	"testing"

	"gorm.io/gorm"

	"homeledger/internal/invite"
	"homeledger/internal/models"
	"homeledger/internal/testutil"
)

func newHouseholdTestService(db *gorm.DB) HouseholdServicer {
	return NewHouseholdService(db, NewNotificationService(db))
}

func TestCreateHousehold(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newHouseholdTestService(db)
		user := testutil.CreateTestUser(t, db)

		household, err := svc.CreateHousehold(user.ID, "Smith Family")
		testutil.AssertNoError(t, err)

		if household.ID == 0 {
			t.Fatal("expected non-zero household ID")
		}
		if household.OwnerID != user.ID {
			t.Errorf("expected owner %d, got %d", user.ID, household.OwnerID)
		}
		if !invite.IsValid(household.InviteCode) {
			t.Errorf("expected valid invite code, got %q", household.InviteCode)
		}

		// Creator becomes the first member with the owner role
		var member models.HouseholdMember
		db.Where("household_id = ? AND user_id = ?", household.ID, user.ID).First(&member)
		if member.Role != models.HouseholdRoleOwner {
			t.Errorf("expected owner role, got %s", member.Role)
		}

		var stored models.User
		db.First(&stored, user.ID)
		if stored.HouseholdID == nil || *stored.HouseholdID != household.ID {
			t.Error("expected user household_id to be set")
		}
		if stored.HouseholdRole != models.HouseholdRoleOwner {
			t.Errorf("expected user household_role owner, got %s", stored.HouseholdRole)
		}
	})

	t.Run("empty_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newHouseholdTestService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateHousehold(user.ID, "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("already_in_household", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newHouseholdTestService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateHousehold(user.ID, "First")
		testutil.AssertNoError(t, err)

		_, err = svc.CreateHousehold(user.ID, "Second")
		testutil.AssertAppError(t, err, "ALREADY_IN_HOUSEHOLD")
	})

	t.Run("unique_invite_codes", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newHouseholdTestService(db)

		seen := make(map[string]bool)
		for i := 0; i < 10; i++ {
			user := testutil.CreateTestUser(t, db)
			household, err := svc.CreateHousehold(user.ID, "Household")
			testutil.AssertNoError(t, err)
			if seen[household.InviteCode] {
				t.Fatalf("duplicate invite code %s", household.InviteCode)
			}
			seen[household.InviteCode] = true
		}
	})
}

func TestJoinHousehold(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newHouseholdTestService(db)

		owner := testutil.CreateTestUser(t, db)
		joiner := testutil.CreateTestUser(t, db)
		household := testutil.CreateTestHousehold(t, db, owner)

		joined, err := svc.JoinHousehold(joiner.ID, household.InviteCode)
		testutil.AssertNoError(t, err)
		if joined.ID != household.ID {
			t.Errorf("expected household %d, got %d", household.ID, joined.ID)
		}

		// Joiners start with the member role
		var member models.HouseholdMember
		db.Where("household_id = ? AND user_id = ?", household.ID, joiner.ID).First(&member)
		if member.Role != models.HouseholdRoleMember {
			t.Errorf("expected member role, got %s", member.Role)
		}

		// Owner is notified of the new member
		var count int64
		db.Model(&models.Notification{}).
			Where("user_id = ? AND type = ?", owner.ID, models.NotificationTypeMemberJoined).
			Count(&count)
		if count != 1 {
			t.Errorf("expected 1 member_joined notification for owner, got %d", count)
		}
	})

	t.Run("unknown_code", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newHouseholdTestService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.JoinHousehold(user.ID, "ZZZZZZZZ")
		testutil.AssertAppError(t, err, "INVITE_CODE_NOT_FOUND")
	})

	t.Run("rejoin_same_household_is_noop", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newHouseholdTestService(db)

		owner := testutil.CreateTestUser(t, db)
		joiner := testutil.CreateTestUser(t, db)
		household := testutil.CreateTestHousehold(t, db, owner)

		_, err := svc.JoinHousehold(joiner.ID, household.InviteCode)
		testutil.AssertNoError(t, err)

		_, err = svc.JoinHousehold(joiner.ID, household.InviteCode)
		testutil.AssertNoError(t, err)

		var count int64
		db.Model(&models.HouseholdMember{}).
			Where("household_id = ? AND user_id = ?", household.ID, joiner.ID).
			Count(&count)
		if count != 1 {
			t.Errorf("expected a single membership row, got %d", count)
		}
	})

	t.Run("already_in_other_household", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newHouseholdTestService(db)

		owner1 := testutil.CreateTestUser(t, db)
		owner2 := testutil.CreateTestUser(t, db)
		joiner := testutil.CreateTestUser(t, db)
		household1 := testutil.CreateTestHousehold(t, db, owner1)
		household2 := testutil.CreateTestHousehold(t, db, owner2)

		_, err := svc.JoinHousehold(joiner.ID, household1.InviteCode)
		testutil.AssertNoError(t, err)

		_, err = svc.JoinHousehold(joiner.ID, household2.InviteCode)
		testutil.AssertAppError(t, err, "ALREADY_IN_HOUSEHOLD")
	})
}

func TestGetUserHousehold(t *testing.T) {
	t.Run("member", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newHouseholdTestService(db)

		owner := testutil.CreateTestUser(t, db)
		household := testutil.CreateTestHousehold(t, db, owner)

		got, err := svc.GetUserHousehold(owner.ID)
		testutil.AssertNoError(t, err)
		if got.ID != household.ID {
			t.Errorf("expected household %d, got %d", household.ID, got.ID)
		}
	})

	t.Run("no_household", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newHouseholdTestService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.GetUserHousehold(user.ID)
		testutil.AssertAppError(t, err, "NOT_IN_HOUSEHOLD")
	})
}

func TestRenameHousehold(t *testing.T) {
	t.Run("owner_can_rename", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newHouseholdTestService(db)

		owner := testutil.CreateTestUser(t, db)
		testutil.CreateTestHousehold(t, db, owner)

		household, err := svc.RenameHousehold(owner.ID, "New Name")
		testutil.AssertNoError(t, err)
		if household.Name != "New Name" {
			t.Errorf("expected New Name, got %s", household.Name)
		}
	})

	t.Run("member_cannot_rename", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newHouseholdTestService(db)

		owner := testutil.CreateTestUser(t, db)
		member := testutil.CreateTestUser(t, db)
		household := testutil.CreateTestHousehold(t, db, owner)
		testutil.AddTestMember(t, db, household, member, models.HouseholdRoleMember)

		_, err := svc.RenameHousehold(member.ID, "Hijacked")
		testutil.AssertAppError(t, err, "INSUFFICIENT_ROLE")
	})
}

func TestGetMembers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := newHouseholdTestService(db)

	owner := testutil.CreateTestUser(t, db)
	member := testutil.CreateTestUser(t, db)
	household := testutil.CreateTestHousehold(t, db, owner)
	testutil.AddTestMember(t, db, household, member, models.HouseholdRoleViewer)

	members, err := svc.GetMembers(member.ID)
	testutil.AssertNoError(t, err)
	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(members))
	}
	if members[0].UserID != owner.ID {
		t.Errorf("expected owner first by join time, got user %d", members[0].UserID)
	}
	if members[0].Email == "" || members[0].Name == "" {
		t.Error("expected member views to carry user name and email")
	}
}

func TestGetInviteCode(t *testing.T) {
	t.Run("admin_can_view", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newHouseholdTestService(db)

		owner := testutil.CreateTestUser(t, db)
		admin := testutil.CreateTestUser(t, db)
		household := testutil.CreateTestHousehold(t, db, owner)
		testutil.AddTestMember(t, db, household, admin, models.HouseholdRoleAdmin)

		code, err := svc.GetInviteCode(admin.ID)
		testutil.AssertNoError(t, err)
		if code != household.InviteCode {
			t.Errorf("expected code %s, got %s", household.InviteCode, code)
		}
	})

	t.Run("member_cannot_view", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newHouseholdTestService(db)

		owner := testutil.CreateTestUser(t, db)
		member := testutil.CreateTestUser(t, db)
		household := testutil.CreateTestHousehold(t, db, owner)
		testutil.AddTestMember(t, db, household, member, models.HouseholdRoleMember)

		_, err := svc.GetInviteCode(member.ID)
		testutil.AssertAppError(t, err, "INSUFFICIENT_ROLE")
	})
}

func TestRemoveMember(t *testing.T) {
	t.Run("owner_removes_member", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newHouseholdTestService(db)

		owner := testutil.CreateTestUser(t, db)
		member := testutil.CreateTestUser(t, db)
		household := testutil.CreateTestHousehold(t, db, owner)
		testutil.AddTestMember(t, db, household, member, models.HouseholdRoleMember)

		err := svc.RemoveMember(owner.ID, member.ID)
		testutil.AssertNoError(t, err)

		var count int64
		db.Model(&models.HouseholdMember{}).Where("user_id = ?", member.ID).Count(&count)
		if count != 0 {
			t.Errorf("expected membership removed, found %d rows", count)
		}

		var stored models.User
		db.First(&stored, member.ID)
		if stored.HouseholdID != nil {
			t.Error("expected user household_id cleared")
		}

		var notifCount int64
		db.Model(&models.Notification{}).
			Where("user_id = ? AND type = ?", member.ID, models.NotificationTypeMemberRemoved).
			Count(&notifCount)
		if notifCount != 1 {
			t.Errorf("expected 1 member_removed notification, got %d", notifCount)
		}
	})

	t.Run("admin_cannot_remove_owner", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newHouseholdTestService(db)

		owner := testutil.CreateTestUser(t, db)
		admin := testutil.CreateTestUser(t, db)
		household := testutil.CreateTestHousehold(t, db, owner)
		testutil.AddTestMember(t, db, household, admin, models.HouseholdRoleAdmin)

		err := svc.RemoveMember(admin.ID, owner.ID)
		testutil.AssertAppError(t, err, "INSUFFICIENT_ROLE")
	})

	t.Run("last_owner_cannot_be_removed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newHouseholdTestService(db)

		owner := testutil.CreateTestUser(t, db)
		testutil.CreateTestHousehold(t, db, owner)

		err := svc.RemoveMember(owner.ID, owner.ID)
		testutil.AssertAppError(t, err, "CANNOT_REMOVE_OWNER")
	})

	t.Run("member_cannot_remove", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newHouseholdTestService(db)

		owner := testutil.CreateTestUser(t, db)
		member := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		household := testutil.CreateTestHousehold(t, db, owner)
		testutil.AddTestMember(t, db, household, member, models.HouseholdRoleMember)
		testutil.AddTestMember(t, db, household, other, models.HouseholdRoleMember)

		err := svc.RemoveMember(member.ID, other.ID)
		testutil.AssertAppError(t, err, "INSUFFICIENT_ROLE")
	})

	t.Run("target_not_in_household", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newHouseholdTestService(db)

		owner := testutil.CreateTestUser(t, db)
		outsider := testutil.CreateTestUser(t, db)
		testutil.CreateTestHousehold(t, db, owner)

		err := svc.RemoveMember(owner.ID, outsider.ID)
		testutil.AssertAppError(t, err, "MEMBER_NOT_FOUND")
	})
}

func TestChangeRole(t *testing.T) {
	t.Run("owner_promotes_member", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newHouseholdTestService(db)

		owner := testutil.CreateTestUser(t, db)
		member := testutil.CreateTestUser(t, db)
		household := testutil.CreateTestHousehold(t, db, owner)
		testutil.AddTestMember(t, db, household, member, models.HouseholdRoleMember)

		view, err := svc.ChangeRole(owner.ID, member.ID, models.HouseholdRoleAdmin)
		testutil.AssertNoError(t, err)
		if view.Role != models.HouseholdRoleAdmin {
			t.Errorf("expected admin role, got %s", view.Role)
		}

		// User row stays in sync with the membership row
		var stored models.User
		db.First(&stored, member.ID)
		if stored.HouseholdRole != models.HouseholdRoleAdmin {
			t.Errorf("expected user household_role admin, got %s", stored.HouseholdRole)
		}

		var notifCount int64
		db.Model(&models.Notification{}).
			Where("user_id = ? AND type = ?", member.ID, models.NotificationTypeRoleChanged).
			Count(&notifCount)
		if notifCount != 1 {
			t.Errorf("expected 1 role_changed notification, got %d", notifCount)
		}
	})

	t.Run("last_owner_cannot_be_demoted", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newHouseholdTestService(db)

		owner := testutil.CreateTestUser(t, db)
		testutil.CreateTestHousehold(t, db, owner)

		_, err := svc.ChangeRole(owner.ID, owner.ID, models.HouseholdRoleMember)
		testutil.AssertAppError(t, err, "LAST_OWNER")
	})

	t.Run("owner_demoted_when_another_owner_exists", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newHouseholdTestService(db)

		owner := testutil.CreateTestUser(t, db)
		coOwner := testutil.CreateTestUser(t, db)
		household := testutil.CreateTestHousehold(t, db, owner)
		testutil.AddTestMember(t, db, household, coOwner, models.HouseholdRoleOwner)

		view, err := svc.ChangeRole(coOwner.ID, owner.ID, models.HouseholdRoleMember)
		testutil.AssertNoError(t, err)
		if view.Role != models.HouseholdRoleMember {
			t.Errorf("expected member role, got %s", view.Role)
		}
	})

	t.Run("viewer_cannot_change_roles", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newHouseholdTestService(db)

		owner := testutil.CreateTestUser(t, db)
		viewer := testutil.CreateTestUser(t, db)
		household := testutil.CreateTestHousehold(t, db, owner)
		testutil.AddTestMember(t, db, household, viewer, models.HouseholdRoleViewer)

		_, err := svc.ChangeRole(viewer.ID, owner.ID, models.HouseholdRoleMember)
		testutil.AssertAppError(t, err, "INSUFFICIENT_ROLE")
	})
}

func TestLeaveHousehold(t *testing.T) {
	t.Run("member_leaves", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newHouseholdTestService(db)

		owner := testutil.CreateTestUser(t, db)
		member := testutil.CreateTestUser(t, db)
		household := testutil.CreateTestHousehold(t, db, owner)
		testutil.AddTestMember(t, db, household, member, models.HouseholdRoleMember)

		err := svc.LeaveHousehold(member.ID)
		testutil.AssertNoError(t, err)

		var stored models.User
		db.First(&stored, member.ID)
		if stored.HouseholdID != nil {
			t.Error("expected user household_id cleared after leaving")
		}
	})

	t.Run("last_owner_cannot_leave", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newHouseholdTestService(db)

		owner := testutil.CreateTestUser(t, db)
		testutil.CreateTestHousehold(t, db, owner)

		err := svc.LeaveHousehold(owner.ID)
		testutil.AssertAppError(t, err, "LAST_OWNER")
	})

	t.Run("owner_leaves_when_another_owner_exists", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newHouseholdTestService(db)

		owner := testutil.CreateTestUser(t, db)
		coOwner := testutil.CreateTestUser(t, db)
		household := testutil.CreateTestHousehold(t, db, owner)
		testutil.AddTestMember(t, db, household, coOwner, models.HouseholdRoleOwner)

		err := svc.LeaveHousehold(owner.ID)
		testutil.AssertNoError(t, err)
	})

	t.Run("not_in_household", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newHouseholdTestService(db)
		user := testutil.CreateTestUser(t, db)

		err := svc.LeaveHousehold(user.ID)
		testutil.AssertAppError(t, err, "NOT_IN_HOUSEHOLD")
	})
}
