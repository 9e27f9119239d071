package service

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/workload-service/internal/auth"
	"github.com/spec-kit/workload-service/internal/domain"
	"github.com/spec-kit/workload-service/internal/persistence"
	apperrors "github.com/spec-kit/workload-service/pkg/util"
)

var (
	adminActor = auth.Actor{Role: domain.RoleAdministrator, Identity: "admin@university.edu"}
	staffActor = auth.Actor{Role: domain.RoleStaff, Identity: "a@x.edu"}
)

func testDeps(store persistence.CollectionStore) ModuleDependencies {
	return ModuleDependencies{
		Store:           store,
		Logger:          zap.NewNop(),
		NotificationTTL: 50 * time.Millisecond,
		UploadMaxBytes:  5 * 1024 * 1024,
	}
}

func hydratedStaffModule(t *testing.T) (*Module[domain.StaffMember], *persistence.MemoryStore) {
	t.Helper()
	store := persistence.NewMemoryStore()
	module := NewStaffModule(testDeps(store))
	t.Cleanup(module.Close)
	require.NoError(t, module.Hydrate(context.Background()))
	return module, store
}

func seedStore(t *testing.T, store *persistence.MemoryStore, key string, records any) {
	t.Helper()
	payload, err := json.Marshal(records)
	require.NoError(t, err)
	store.Seed(key, payload)
}

func TestHydrateSeedsEmptyStore(t *testing.T) {
	module, store := hydratedStaffModule(t)

	records := module.List()
	require.Len(t, records, 5)
	for i, record := range records {
		require.Equal(t, i+1, record.ID)
	}
	require.Equal(t, "STAFF001", records[0].StaffID)
	require.Equal(t, "STAFF005", records[4].StaffID)

	// Seeding persists immediately.
	payload, found, err := store.Load(context.Background(), staffStorageKey)
	require.NoError(t, err)
	require.True(t, found)
	var stored []domain.StaffMember
	require.NoError(t, json.Unmarshal(payload, &stored))
	require.Equal(t, records, stored)
}

func TestHydrateReseedsMalformedPayload(t *testing.T) {
	store := persistence.NewMemoryStore()
	store.Seed(staffStorageKey, []byte("{definitely not json"))

	module := NewStaffModule(testDeps(store))
	t.Cleanup(module.Close)
	require.NoError(t, module.Hydrate(context.Background()))
	require.Len(t, module.List(), 5)

	payload, found, err := store.Load(context.Background(), staffStorageKey)
	require.NoError(t, err)
	require.True(t, found)
	require.True(t, json.Valid(payload))
}

func TestHydrateRoundTripIsIdempotent(t *testing.T) {
	first, store := hydratedStaffModule(t)

	second := NewStaffModule(testDeps(store))
	t.Cleanup(second.Close)
	require.NoError(t, second.Hydrate(context.Background()))
	require.Equal(t, first.List(), second.List())
}

func TestCreateAssignsNextIdentifiers(t *testing.T) {
	store := persistence.NewMemoryStore()
	seedStore(t, store, staffStorageKey, []domain.StaffMember{
		{ID: 1, StaffID: "STAFF001", Name: "A", Email: "a@university.edu"},
		{ID: 3, StaffID: "STAFF003", Name: "B", Email: "b@university.edu"},
		{ID: 5, StaffID: "STAFF005", Name: "C", Email: "c@university.edu"},
	})
	module := NewStaffModule(testDeps(store))
	t.Cleanup(module.Close)
	require.NoError(t, module.Hydrate(context.Background()))

	created, err := module.Create(context.Background(), adminActor, domain.StaffMember{
		Name:  "Dora Nwosu",
		Email: "dora.nwosu@university.edu",
	})
	require.NoError(t, err)
	require.Equal(t, 6, created.ID)
	require.Equal(t, "STAFF006", created.StaffID)

	records := module.List()
	require.Len(t, records, 4)
	for _, record := range records[:3] {
		require.Less(t, record.ID, created.ID)
	}

	notification, visible := module.Notification()
	require.True(t, visible)
	require.Equal(t, domain.NotificationSuccess, notification.Kind)
}

func TestCreateHonorsProvidedSecondaryID(t *testing.T) {
	module, _ := hydratedStaffModule(t)

	created, err := module.Create(context.Background(), adminActor, domain.StaffMember{
		StaffID: "STAFF042",
		Name:    "Custom Code",
		Email:   "custom.code@university.edu",
	})
	require.NoError(t, err)
	require.Equal(t, "STAFF042", created.StaffID)
}

func TestCreateValidatesRequiredFields(t *testing.T) {
	module, _ := hydratedStaffModule(t)
	before := module.List()

	_, err := module.Create(context.Background(), adminActor, domain.StaffMember{Name: "No Email"})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
	require.Equal(t, before, module.List())

	notification, visible := module.Notification()
	require.True(t, visible)
	require.Equal(t, domain.NotificationError, notification.Kind)
}

func TestStaffRoleCannotMutate(t *testing.T) {
	module, _ := hydratedStaffModule(t)
	before := module.List()

	_, err := module.Create(context.Background(), staffActor, domain.StaffMember{
		Name: "X", Email: "x@university.edu",
	})
	require.True(t, apperrors.IsCode(err, "FORBIDDEN"))

	_, err = module.Update(context.Background(), staffActor, 1, before[0])
	require.True(t, apperrors.IsCode(err, "FORBIDDEN"))

	_, err = module.RequestDelete(staffActor, 1)
	require.True(t, apperrors.IsCode(err, "FORBIDDEN"))

	require.Equal(t, before, module.List())

	notification, visible := module.Notification()
	require.True(t, visible)
	require.Equal(t, domain.NotificationError, notification.Kind)
}

func TestUpdatePreservesIdentityAndOrder(t *testing.T) {
	module, _ := hydratedStaffModule(t)
	before := module.List()

	draft := before[1]
	draft.Department = "Statistics"
	updated, err := module.Update(context.Background(), adminActor, 2, draft)
	require.NoError(t, err)
	require.Equal(t, 2, updated.ID)
	require.Equal(t, "STAFF002", updated.StaffID)
	require.Equal(t, "Statistics", updated.Department)

	after := module.List()
	require.Len(t, after, len(before))
	for i := range after {
		if after[i].ID == 2 {
			require.Equal(t, "Statistics", after[i].Department)
			continue
		}
		require.Equal(t, before[i], after[i])
	}

	notification, visible := module.Notification()
	require.True(t, visible)
	require.Equal(t, domain.NotificationSuccess, notification.Kind)
	require.Equal(t, StateList, module.State())
}

func TestUpdateNeverReassignsPrimaryID(t *testing.T) {
	module, _ := hydratedStaffModule(t)

	draft := domain.StaffMember{ID: 99, StaffID: "STAFF099", Name: "Renamed", Email: "renamed@university.edu"}
	updated, err := module.Update(context.Background(), adminActor, 3, draft)
	require.NoError(t, err)
	require.Equal(t, 3, updated.ID)
	require.Equal(t, "STAFF003", updated.StaffID)
}

func TestDeleteRemovesExactlyOne(t *testing.T) {
	module, _ := hydratedStaffModule(t)
	before := module.List()

	token, err := module.RequestDelete(adminActor, 3)
	require.NoError(t, err)
	require.Len(t, module.List(), 5, "request alone must not mutate")

	require.NoError(t, module.ConfirmDelete(context.Background(), adminActor, token))

	after := module.List()
	require.Len(t, after, 4)
	want := append(append([]domain.StaffMember(nil), before[:2]...), before[3:]...)
	require.Equal(t, want, after)

	notification, visible := module.Notification()
	require.True(t, visible)
	require.Equal(t, domain.NotificationDelete, notification.Kind)
}

func TestDeleteClearsOpenDetail(t *testing.T) {
	module, _ := hydratedStaffModule(t)

	_, err := module.View(4)
	require.NoError(t, err)
	require.Equal(t, StateDetail, module.State())

	token, err := module.RequestDelete(adminActor, 4)
	require.NoError(t, err)
	require.NoError(t, module.ConfirmDelete(context.Background(), adminActor, token))

	_, open := module.Detail()
	require.False(t, open)
	require.Equal(t, StateList, module.State())
}

func TestConfirmDeleteRejectsUnknownToken(t *testing.T) {
	module, _ := hydratedStaffModule(t)

	err := module.ConfirmDelete(context.Background(), adminActor, "nope")
	require.True(t, apperrors.IsCode(err, "CONFLICT"))
	require.Len(t, module.List(), 5)
}

func TestDeleteTokenInvalidatedByMutation(t *testing.T) {
	module, _ := hydratedStaffModule(t)

	token, err := module.RequestDelete(adminActor, 2)
	require.NoError(t, err)

	_, err = module.Create(context.Background(), adminActor, domain.StaffMember{
		Name: "New", Email: "new@university.edu",
	})
	require.NoError(t, err)

	err = module.ConfirmDelete(context.Background(), adminActor, token)
	require.True(t, apperrors.IsCode(err, "CONFLICT"))
	require.Len(t, module.List(), 6)
}

// Deleting the highest-numbered record frees its number: the generators
// always recompute from the current maximum. Deliberately preserved behavior.
func TestNextIDReusesMaxAfterDelete(t *testing.T) {
	module, _ := hydratedStaffModule(t)

	token, err := module.RequestDelete(adminActor, 5)
	require.NoError(t, err)
	require.NoError(t, module.ConfirmDelete(context.Background(), adminActor, token))

	created, err := module.Create(context.Background(), adminActor, domain.StaffMember{
		Name: "Fresh", Email: "fresh@university.edu",
	})
	require.NoError(t, err)
	require.Equal(t, 5, created.ID)
	require.Equal(t, "STAFF005", created.StaffID)
}

func TestStateMachineTransitions(t *testing.T) {
	module, _ := hydratedStaffModule(t)
	require.Equal(t, StateList, module.State())

	require.NoError(t, module.BeginCreate(adminActor))
	require.Equal(t, StateForm, module.State())
	module.Cancel()
	require.Equal(t, StateList, module.State())

	require.NoError(t, module.BeginEdit(adminActor, 2))
	require.Equal(t, StateForm, module.State())
	module.Cancel()

	_, err := module.View(1)
	require.NoError(t, err)
	require.Equal(t, StateDetail, module.State())
}

func TestBeginCreateDeniedForStaffRole(t *testing.T) {
	module, _ := hydratedStaffModule(t)

	err := module.BeginCreate(staffActor)
	require.True(t, apperrors.IsCode(err, "FORBIDDEN"))
	require.Equal(t, StateList, module.State())
}

func TestFilterAllSentinelReturnsUnfiltered(t *testing.T) {
	module, _ := hydratedStaffModule(t)

	module.SetFilter("department", "Computer Science")
	require.Len(t, module.Visible(), 2)

	module.SetFilter("department", FilterAll)
	require.Equal(t, module.List(), module.Visible())
}

func TestFilterCombinesEqualityAndQuery(t *testing.T) {
	module, _ := hydratedStaffModule(t)

	module.SetFilter("department", "Mathematics")
	module.SetQuery("ELENA")

	visible := module.Visible()
	require.Len(t, visible, 1)
	require.Equal(t, "Elena Petrova", visible[0].Name)
}

func TestUploadOwnRecordFallsBackToFirst(t *testing.T) {
	module, _ := hydratedStaffModule(t)

	// No record matches a@x.edu, so the first record counts as own.
	ticket, err := module.BeginUpload(staffActor, 1)
	require.NoError(t, err)

	err = module.CompleteUpload(context.Background(), staffActor, ticket, []byte("png-bytes"), "image/png")
	require.NoError(t, err)

	records := module.List()
	require.Contains(t, records[0].ProfileImage, "data:image/png;base64,")
}

func TestUploadDeniedForOthersRecord(t *testing.T) {
	module, _ := hydratedStaffModule(t)

	_, err := module.BeginUpload(staffActor, 3)
	require.True(t, apperrors.IsCode(err, "FORBIDDEN"))
}

func TestUploadRejectsOversize(t *testing.T) {
	module, _ := hydratedStaffModule(t)
	before := module.List()

	ticket, err := module.BeginUpload(adminActor, 2)
	require.NoError(t, err)

	oversize := bytes.Repeat([]byte{0xff}, 6*1024*1024)
	err = module.CompleteUpload(context.Background(), adminActor, ticket, oversize, "image/jpeg")
	require.True(t, apperrors.IsCode(err, "UPLOAD_REJECTED"))
	require.Contains(t, err.Error(), "5 MB")
	require.Equal(t, before, module.List())
}

func TestUploadRejectsNonImage(t *testing.T) {
	module, _ := hydratedStaffModule(t)

	ticket, err := module.BeginUpload(adminActor, 2)
	require.NoError(t, err)

	err = module.CompleteUpload(context.Background(), adminActor, ticket, []byte("%PDF-1.4"), "application/pdf")
	require.True(t, apperrors.IsCode(err, "UPLOAD_REJECTED"))
}

func TestUploadUpdatesLiveDetailReference(t *testing.T) {
	module, _ := hydratedStaffModule(t)

	_, err := module.View(2)
	require.NoError(t, err)

	ticket, err := module.BeginUpload(adminActor, 2)
	require.NoError(t, err)
	require.NoError(t, module.CompleteUpload(context.Background(), adminActor, ticket, []byte("img"), "image/png"))

	detail, open := module.Detail()
	require.True(t, open)
	require.Contains(t, detail.ProfileImage, "base64,")
}

func TestExportSnapshotDescribesVisibleSubset(t *testing.T) {
	module, _ := hydratedStaffModule(t)

	module.SetFilter("department", "Computer Science")
	snapshot := module.Export()

	require.Equal(t, domain.KindStaff, snapshot.Kind)
	require.Equal(t, "Computer Science", snapshot.Filters["department"])
	require.Equal(t, 5, snapshot.Total)
	require.Len(t, snapshot.Rows, 2)
	require.Equal(t, len(snapshot.Columns), len(snapshot.Rows[0]))
	require.Equal(t, 2, snapshot.Summary["staff"])
}

func TestCourseModuleRequiresPrerequisite(t *testing.T) {
	store := persistence.NewMemoryStore()
	module := NewCourseModule(testDeps(store))
	t.Cleanup(module.Close)
	require.NoError(t, module.Hydrate(context.Background()))

	_, err := module.Create(context.Background(), adminActor, domain.Course{
		CourseCode: "CS999",
		Name:       "Missing Prerequisite Field",
	})
	require.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestTaskModuleSeedsAndCreates(t *testing.T) {
	store := persistence.NewMemoryStore()
	module := NewTaskModule(testDeps(store))
	t.Cleanup(module.Close)
	require.NoError(t, module.Hydrate(context.Background()))
	require.Len(t, module.List(), 5)

	created, err := module.Create(context.Background(), adminActor, domain.Task{
		Name:        "Accreditation paperwork",
		Description: "Prepare the accreditation self-study report",
		Category:    "Administration",
		Hours:       9,
		Department:  "Computer Science",
	})
	require.NoError(t, err)
	require.Equal(t, 6, created.ID)
	require.Equal(t, "T006", created.TaskID)
}
