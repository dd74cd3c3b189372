package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"predu/internal/domain/entity"
	"predu/pkg/errors"
)

func TestSubmitTutorRequest(t *testing.T) {
	requests := newFakeRequestRepo()
	uc := NewTutorRequestUseCase(requests, newFakeProfileRepo(&entity.UserProfile{ID: "u1"}))

	request, err := uc.Submit(context.Background(), "u1", SubmitTutorRequestInput{GroupName: " Física avanzada ", DNI: "12345678a"})

	require.NoError(t, err)
	assert.Equal(t, entity.TutorRequestPending, request.Status)
	assert.Equal(t, "12345678A", request.DNI)
	assert.Equal(t, "Física avanzada", request.GroupName)
	assert.Contains(t, requests.requests, request.ID)

	resolver := NewRoleResolver(newFakeProfileRepo(), requests, nil)
	state, err := resolver.Resolve(context.Background(), &entity.Identity{UID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, PendingRequest{DNI: "12345678A"}, state)
}

func TestSubmitTutorRequestValidation(t *testing.T) {
	uc := NewTutorRequestUseCase(newFakeRequestRepo(), newFakeProfileRepo())

	tests := []struct {
		name  string
		input SubmitTutorRequestInput
	}{
		{"short dni", SubmitTutorRequestInput{GroupName: "g", DNI: "123"}},
		{"letters in dni", SubmitTutorRequestInput{GroupName: "g", DNI: "12AB5678"}},
		{"missing group", SubmitTutorRequestInput{GroupName: "  ", DNI: "12345678"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Submit(context.Background(), "u1", tt.input)
			assert.True(t, errors.Is(err, errors.CodeBadRequest))
		})
	}
}

func TestSubmitTutorRequestConflicts(t *testing.T) {
	t.Run("user already has a role", func(t *testing.T) {
		profiles := newFakeProfileRepo(&entity.UserProfile{ID: "u1", Role: entity.RoleStudent})
		uc := NewTutorRequestUseCase(newFakeRequestRepo(), profiles)

		_, err := uc.Submit(context.Background(), "u1", SubmitTutorRequestInput{GroupName: "g", DNI: "12345678"})
		assert.True(t, errors.Is(err, errors.CodeConflict))
	})

	t.Run("request already pending", func(t *testing.T) {
		pending := &entity.TutorRequest{ID: "r1", UserID: "u1", Status: entity.TutorRequestPending}
		uc := NewTutorRequestUseCase(newFakeRequestRepo(pending), newFakeProfileRepo())

		_, err := uc.Submit(context.Background(), "u1", SubmitTutorRequestInput{GroupName: "g", DNI: "12345678"})
		assert.True(t, errors.Is(err, errors.CodeConflict))
	})

	t.Run("resubmit after rejection", func(t *testing.T) {
		rejected := &entity.TutorRequest{ID: "r1", UserID: "u1", Status: entity.TutorRequestRejected}
		uc := NewTutorRequestUseCase(newFakeRequestRepo(rejected), newFakeProfileRepo())

		_, err := uc.Submit(context.Background(), "u1", SubmitTutorRequestInput{GroupName: "g", DNI: "12345678"})
		assert.NoError(t, err)
	})
}

func TestApproveTutorRequest(t *testing.T) {
	requests := newFakeRequestRepo(&entity.TutorRequest{ID: "r1", UserID: "u1", Status: entity.TutorRequestPending, GroupName: "Química"})
	profiles := newFakeProfileRepo(&entity.UserProfile{ID: "u1"})
	institutions := newFakeInstitutionRepo()
	requests.profiles, requests.institutions = profiles, institutions
	uc := NewTutorRequestUseCase(requests, profiles)

	request, err := uc.Approve(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, entity.TutorRequestApproved, request.Status)

	profile, err := profiles.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleTutor, profile.Role)
	assert.True(t, *profile.TutorVerified)

	group, ok := institutions.groups[profile.InstitutionID]
	require.True(t, ok)
	assert.Equal(t, "Química", group.Name)
	assert.Equal(t, "u1", group.OwnerID)

	resolver := NewRoleResolver(profiles, requests, nil)
	state, err := resolver.Resolve(context.Background(), &entity.Identity{UID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, TutorVerified{}, state)
}

func TestRejectTutorRequestThenNotifyOnce(t *testing.T) {
	requests := newFakeRequestRepo(&entity.TutorRequest{ID: "r1", UserID: "u1", Status: entity.TutorRequestPending})
	uc := NewTutorRequestUseCase(requests, newFakeProfileRepo())

	_, err := uc.Reject(context.Background(), "r1")
	require.NoError(t, err)

	notifier := &recordingNotifier{}
	resolver := NewRoleResolver(newFakeProfileRepo(), requests, notifier)
	for i := 0; i < 2; i++ {
		state, err := resolver.Resolve(context.Background(), &entity.Identity{UID: "u1"})
		require.NoError(t, err)
		assert.Equal(t, Unassigned{}, state)
	}
	assert.Equal(t, 1, notifier.count())
}

func TestTutorRequestTransitionsOnlyFromPending(t *testing.T) {
	requests := newFakeRequestRepo(&entity.TutorRequest{ID: "r1", UserID: "u1", Status: entity.TutorRequestApproved})
	uc := NewTutorRequestUseCase(requests, newFakeProfileRepo())

	_, err := uc.Reject(context.Background(), "r1")
	assert.True(t, errors.Is(err, errors.CodeConflict))

	_, err = uc.Approve(context.Background(), "missing")
	assert.True(t, errors.Is(err, errors.CodeNotFound))
}

func TestMineTutorRequest(t *testing.T) {
	uc := NewTutorRequestUseCase(newFakeRequestRepo(), newFakeProfileRepo())
	_, err := uc.Mine(context.Background(), "u1")
	assert.True(t, errors.Is(err, errors.CodeNotFound))

	uc = NewTutorRequestUseCase(newFakeRequestRepo(&entity.TutorRequest{ID: "r1", UserID: "u1"}), newFakeProfileRepo())
	request, err := uc.Mine(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "r1", request.ID)
}

func TestConcurrentDecisionsApplyOnce(t *testing.T) {
	requests := newFakeRequestRepo(&entity.TutorRequest{ID: "r1", UserID: "u1", Status: entity.TutorRequestPending, GroupName: "Química"})
	profiles := newFakeProfileRepo(&entity.UserProfile{ID: "u1"})
	institutions := newFakeInstitutionRepo()
	requests.profiles, requests.institutions = profiles, institutions
	uc := NewTutorRequestUseCase(requests, profiles)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded []entity.TutorRequestStatus
		conflicts int
	)
	decide := func(fn func(context.Context, string) (*entity.TutorRequest, error)) {
		defer wg.Done()
		request, err := fn(context.Background(), "r1")
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			assert.True(t, errors.Is(err, errors.CodeConflict))
			conflicts++
			return
		}
		succeeded = append(succeeded, request.Status)
	}

	for i := 0; i < 4; i++ {
		wg.Add(2)
		go decide(uc.Approve)
		go decide(uc.Reject)
	}
	wg.Wait()

	require.Len(t, succeeded, 1)
	assert.Equal(t, 7, conflicts)

	stored, err := requests.GetByID(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, succeeded[0], stored.Status)

	profile, err := profiles.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	if stored.Status == entity.TutorRequestApproved {
		assert.Len(t, institutions.groups, 1)
		assert.Equal(t, entity.RoleTutor, profile.Role)
	} else {
		assert.Empty(t, institutions.groups)
		assert.Equal(t, entity.RoleUnset, profile.Role)
	}
}

func TestApproveCommitFailureLeavesNothingBehind(t *testing.T) {
	requests := newFakeRequestRepo(&entity.TutorRequest{ID: "r1", UserID: "u1", Status: entity.TutorRequestPending, GroupName: "Química"})
	profiles := newFakeProfileRepo(&entity.UserProfile{ID: "u1"})
	institutions := newFakeInstitutionRepo()
	requests.profiles, requests.institutions = profiles, institutions
	requests.commitErr = fmt.Errorf("aborted")
	uc := NewTutorRequestUseCase(requests, profiles)

	_, err := uc.Approve(context.Background(), "r1")
	assert.True(t, errors.Is(err, errors.CodeInternal))

	stored, err := requests.GetByID(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, entity.TutorRequestPending, stored.Status)
	assert.Empty(t, institutions.groups)

	profile, err := profiles.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleUnset, profile.Role)
	assert.Empty(t, profile.InstitutionID)

	requests.commitErr = nil
	request, err := uc.Approve(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, entity.TutorRequestApproved, request.Status)
	assert.Len(t, institutions.groups, 1)
}
