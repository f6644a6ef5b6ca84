package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/sourcegraph/conc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/darts-tournament/internal/domain/entry"
	"github.com/riskibarqy/darts-tournament/internal/domain/player"
	"github.com/riskibarqy/darts-tournament/internal/domain/tournament"
	"github.com/riskibarqy/darts-tournament/internal/domain/user"
	playermock "github.com/riskibarqy/darts-tournament/internal/mocks/domain/player"
	idgen "github.com/riskibarqy/darts-tournament/internal/platform/id"
	"github.com/riskibarqy/darts-tournament/internal/platform/logging"
)

func TestRegistrationService_RegisterConfirmsWithoutApproval(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, DefaultSettings())
	created := e.createTournament(t, tournament.FormatSingleElimination, nil)
	profile := e.addProfile("player-1", player.SkillBeginner)

	got, err := e.registration.Register(context.Background(), RegisterInput{TournamentID: created.ID, PlayerID: profile.ID})
	require.NoError(t, err)
	assert.Equal(t, entry.StatusConfirmed, got.Status)
	assert.Equal(t, profile.DisplayName, got.DisplayName)
	require.NotNil(t, got.ApprovedAt)
	assert.Equal(t, testNow, got.RegisteredAt)
}

func TestRegistrationService_ClosesAtCapacity(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := newTestEngine(t, DefaultSettings())
	created := e.createTournament(t, tournament.FormatSingleElimination, func(in *CreateTournamentInput) {
		in.MaxParticipants = 32
	})
	e.registerPlayers(t, created.ID, 32)

	current, err := e.repo.GetTournament(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, tournament.StatusRegistrationClosed, current.Status)

	late := e.addProfile("late-player", player.SkillAdvanced)
	_, err = e.registration.Register(ctx, RegisterInput{TournamentID: created.ID, PlayerID: late.ID})
	require.ErrorIs(t, err, tournament.ErrRegistrationClosed)

	entries, err := e.repo.ListEntries(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 32)
}

func TestRegistrationService_RegisterCheckOrder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := newTestEngine(t, DefaultSettings())
	created := e.createTournament(t, tournament.FormatSingleElimination, func(in *CreateTournamentInput) {
		in.RegistrationPassword = "oche"
		in.MinSkillLevel = string(player.SkillAdvanced)
	})
	beginner := e.addProfile("beginner", player.SkillBeginner)
	pro := e.addProfile("pro", player.SkillProfessional)

	// A wrong password wins over every later check.
	_, err := e.registration.Register(ctx, RegisterInput{TournamentID: created.ID, PlayerID: beginner.ID, Password: "nope"})
	require.ErrorIs(t, err, tournament.ErrInvalidPassword)

	_, err = e.registration.Register(ctx, RegisterInput{TournamentID: created.ID, PlayerID: "ghost", Password: "oche"})
	require.ErrorIs(t, err, ErrNotFound)

	_, err = e.registration.Register(ctx, RegisterInput{TournamentID: created.ID, PlayerID: beginner.ID, Password: "oche"})
	require.ErrorIs(t, err, tournament.ErrSkillTooLow)

	_, err = e.registration.Register(ctx, RegisterInput{TournamentID: created.ID, PlayerID: pro.ID, Password: "oche"})
	require.NoError(t, err)
	_, err = e.registration.Register(ctx, RegisterInput{TournamentID: created.ID, PlayerID: pro.ID, Password: "oche"})
	require.ErrorIs(t, err, tournament.ErrAlreadyRegistered)
}

func TestRegistrationService_RegisterRejectsClosedTournaments(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := newTestEngine(t, DefaultSettings())
	invitational := e.createTournament(t, tournament.FormatSingleElimination, func(in *CreateTournamentInput) {
		in.AllowPublicRegistration = false
	})
	draft := e.createTournament(t, tournament.FormatSingleElimination, func(in *CreateTournamentInput) {
		in.Draft = true
	})
	notYet := e.createTournament(t, tournament.FormatSingleElimination, func(in *CreateTournamentInput) {
		in.RegistrationStart = testNow.Add(2 * time.Hour)
	})
	profile := e.addProfile("player-1", player.SkillAdvanced)

	for _, id := range []string{invitational.ID, draft.ID, notYet.ID} {
		_, err := e.registration.Register(ctx, RegisterInput{TournamentID: id, PlayerID: profile.ID, Password: "wrong"})
		if !errors.Is(err, tournament.ErrRegistrationClosed) {
			t.Fatalf("tournament %s: expected ErrRegistrationClosed, got %v", id, err)
		}
	}
}

func TestRegistrationService_RegisterDirectoryUnavailableUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := newTestEngine(t, DefaultSettings())
	created := e.createTournament(t, tournament.FormatSingleElimination, nil)

	directory := playermock.NewDirectory(t)
	directory.
		On("GetProfile", mock.Anything, "player-1").
		Return(player.Profile{}, errors.New("connection refused")).
		Once()
	service := NewRegistrationService(e.repo, directory, idgen.NewSequenceGenerator("entry"), DefaultSettings(), nil, logging.NewNop())
	service.now = e.registration.now

	_, err := service.Register(ctx, RegisterInput{TournamentID: created.ID, PlayerID: "player-1"})
	require.ErrorIs(t, err, ErrDependencyUnavailable)
}

func TestRegistrationService_ApproveAndDecline(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := newTestEngine(t, DefaultSettings())
	created := e.createTournament(t, tournament.FormatSingleElimination, func(in *CreateTournamentInput) {
		in.RequireApproval = true
		in.MaxParticipants = 2
	})
	pending := e.registerPlayers(t, created.ID, 3)
	for _, p := range pending {
		require.Equal(t, entry.StatusPending, p.Status)
	}

	_, err := e.registration.Approve(ctx, EntryDecisionInput{TournamentID: created.ID, EntryID: pending[0].ID, Actor: user.Principal{UserID: "stranger"}})
	require.ErrorIs(t, err, tournament.ErrNotOrganizer)

	approved, err := e.registration.Approve(ctx, EntryDecisionInput{TournamentID: created.ID, EntryID: pending[0].ID, Actor: organizer})
	require.NoError(t, err)
	assert.Equal(t, entry.StatusConfirmed, approved.Status)
	require.NotNil(t, approved.ApprovedAt)

	_, err = e.registration.Approve(ctx, EntryDecisionInput{TournamentID: created.ID, EntryID: pending[0].ID, Actor: organizer})
	require.ErrorIs(t, err, tournament.ErrNotPending)

	declined, err := e.registration.Decline(ctx, EntryDecisionInput{TournamentID: created.ID, EntryID: pending[1].ID, Actor: organizer})
	require.NoError(t, err)
	assert.Equal(t, entry.StatusDeclined, declined.Status)

	_, err = e.registration.Approve(ctx, EntryDecisionInput{TournamentID: created.ID, EntryID: pending[2].ID, Actor: organizer})
	require.NoError(t, err)

	current, err := e.repo.GetTournament(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, tournament.StatusRegistrationClosed, current.Status)
}

func TestRegistrationService_Withdraw(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := newTestEngine(t, DefaultSettings())
	created := e.createTournament(t, tournament.FormatSingleElimination, nil)
	entries := e.registerPlayers(t, created.ID, 2)

	withdrawn, err := e.registration.Withdraw(ctx, created.ID, entries[0].PlayerID)
	require.NoError(t, err)
	assert.Equal(t, entry.StatusWithdrawn, withdrawn.Status)

	again, err := e.registration.Withdraw(ctx, created.ID, entries[0].PlayerID)
	require.NoError(t, err)
	assert.Equal(t, withdrawn, again)

	_, err = e.registration.Withdraw(ctx, created.ID, "never-registered")
	require.ErrorIs(t, err, tournament.ErrEntryNotFound)
}

func TestRegistrationService_WithdrawAfterStart(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, DefaultSettings())
	started, entries := e.startWith(t, tournament.FormatSingleElimination, 4, nil)

	_, err := e.registration.Withdraw(context.Background(), started.Tournament.ID, entries[0].PlayerID)
	require.ErrorIs(t, err, tournament.ErrTournamentStarted)
}

func TestRegistrationService_BatchAdd(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := newTestEngine(t, DefaultSettings())
	created := e.createTournament(t, tournament.FormatRoundRobin, func(in *CreateTournamentInput) {
		in.MaxParticipants = 3
	})
	existing := e.registerPlayers(t, created.ID, 1)
	for i := range 3 {
		e.addProfile(fmt.Sprintf("batch-%d", i+1), player.SkillBeginner)
	}

	result, err := e.registration.BatchAdd(ctx, BatchAddInput{
		TournamentID: created.ID,
		Actor:        organizer,
		PlayerIDs:    []string{"batch-1", "batch-1", " ", existing[0].PlayerID, "unknown", "batch-2", "batch-3"},
		AutoApprove:  true,
	})
	require.NoError(t, err)

	require.Len(t, result.Added, 2)
	assert.Equal(t, "batch-1", result.Added[0].PlayerID)
	assert.Equal(t, "batch-2", result.Added[1].PlayerID)
	for _, added := range result.Added {
		assert.Equal(t, entry.StatusConfirmed, added.Status)
	}

	require.Len(t, result.Errors, 3)
	assert.Contains(t, result.Errors[0], "already registered")
	assert.True(t, strings.HasPrefix(result.Errors[1], "player unknown:"), result.Errors[1])
	assert.Equal(t, "player batch-3: tournament full", result.Errors[2])

	current, err := e.repo.GetTournament(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, tournament.StatusRegistrationClosed, current.Status)
}

func TestRegistrationService_BatchAddValidation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := newTestEngine(t, DefaultSettings())
	created := e.createTournament(t, tournament.FormatRoundRobin, nil)

	_, err := e.registration.BatchAdd(ctx, BatchAddInput{TournamentID: created.ID, Actor: organizer})
	require.ErrorIs(t, err, ErrInvalidInput)

	tooMany := make([]string, maxBatchAddPlayers+1)
	for i := range tooMany {
		tooMany[i] = fmt.Sprintf("p-%d", i)
	}
	_, err = e.registration.BatchAdd(ctx, BatchAddInput{TournamentID: created.ID, Actor: organizer, PlayerIDs: tooMany})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = e.registration.BatchAdd(ctx, BatchAddInput{TournamentID: created.ID, Actor: user.Principal{UserID: "stranger"}, PlayerIDs: []string{"p-1"}})
	require.ErrorIs(t, err, tournament.ErrNotOrganizer)
}

func TestRegistrationService_BatchAddPendingWithoutAutoApprove(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, DefaultSettings())
	created := e.createTournament(t, tournament.FormatRoundRobin, nil)
	e.addProfile("batch-1", player.SkillBeginner)

	result, err := e.registration.BatchAdd(context.Background(), BatchAddInput{
		TournamentID: created.ID,
		Actor:        user.Principal{UserID: "staff-9", IsStaff: true},
		PlayerIDs:    []string{"batch-1"},
	})
	require.NoError(t, err)
	require.Len(t, result.Added, 1)
	assert.Equal(t, entry.StatusPending, result.Added[0].Status)
	assert.Empty(t, result.Errors)
}

func TestRegistrationService_ConcurrentRegistrationsRespectCapacity(t *testing.T) {
	t.Parallel()

	const (
		capacity = 4
		attempts = 40
	)

	ctx := context.Background()
	e := newTestEngine(t, DefaultSettings())
	created := e.createTournament(t, tournament.FormatSingleElimination, func(in *CreateTournamentInput) {
		in.MaxParticipants = capacity
	})

	profiles := make([]player.Profile, attempts)
	for i := range profiles {
		profiles[i] = e.addProfile(fmt.Sprintf("rush-player-%02d", i+1), player.SkillIntermediate)
	}

	errs := make([]error, attempts)
	var wg conc.WaitGroup
	for i, profile := range profiles {
		wg.Go(func() {
			_, errs[i] = e.registration.Register(ctx, RegisterInput{TournamentID: created.ID, PlayerID: profile.ID})
		})
	}
	wg.Wait()

	admitted := 0
	for _, err := range errs {
		if err == nil {
			admitted++
			continue
		}
		require.ErrorIs(t, err, tournament.ErrRegistrationClosed)
	}
	assert.Equal(t, capacity, admitted)

	entries, err := e.repo.ListEntries(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, capacity, entry.CountConfirmed(entries))
	assert.Len(t, entries, capacity)

	current, err := e.repo.GetTournament(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, tournament.StatusRegistrationClosed, current.Status)
}
