package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"cloudnote-be/internal/dto"
	"cloudnote-be/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNotebookFixture(t *testing.T) (*fakeFactory, *capturingPublisher, INotebookService) {
	t.Helper()
	factory := newFakeFactory()
	publisher := &capturingPublisher{}
	unlock := NewUnlockTokens("test-secret", time.Minute)
	svc := NewNotebookService(factory, newTestSessions(), publisher, unlock)
	return factory, publisher, svc
}

func TestVerifyPasswordEmpty(t *testing.T) {
	_, _, svc := newNotebookFixture(t)

	_, err := svc.VerifyPassword(context.Background(), "s1", "nb", "")
	assert.ErrorIs(t, err, ErrEmptyPassword)
}

func TestVerifyPasswordUnknownNotebook(t *testing.T) {
	_, _, svc := newNotebookFixture(t)

	_, err := svc.VerifyPassword(context.Background(), "s1", "ghost", "secret")
	assert.ErrorIs(t, err, ErrNotebookNotFound)
}

func TestVerifyPasswordWrong(t *testing.T) {
	factory, _, svc := newNotebookFixture(t)
	factory.uow.notebooks.seed("nb", "right-password")

	_, err := svc.VerifyPassword(context.Background(), "s1", "nb", "wrong-password")
	assert.ErrorIs(t, err, ErrWrongPassword)

	// Failure must not grant access.
	err = svc.SaveContent(context.Background(), "s1", "nb", "sneaky")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestVerifyPasswordSuccess(t *testing.T) {
	factory, _, svc := newNotebookFixture(t)
	factory.uow.notebooks.seed("nb", "secret", func(n *entity.Notebook) {
		n.AlwaysRequirePassword = true
	})

	res, err := svc.VerifyPassword(context.Background(), "s1", "nb", "secret")
	require.NoError(t, err)
	assert.True(t, res.AlwaysRequirePassword)
	assert.NotEmpty(t, res.UnlockToken)

	// The session is now authorized for mutations.
	err = svc.SaveContent(context.Background(), "s1", "nb", "new content")
	assert.NoError(t, err)
}

func TestVerifyPasswordPurgesStaleAuth(t *testing.T) {
	factory, _, svc := newNotebookFixture(t)
	factory.uow.notebooks.seed("nb", "secret")

	_, err := svc.VerifyPassword(context.Background(), "s1", "nb", "secret")
	require.NoError(t, err)

	// Simulate an admin delete behind the session's back.
	deleted, err := factory.uow.notebooks.DeleteBySlug(context.Background(), "nb")
	require.NoError(t, err)
	require.True(t, deleted)

	_, err = svc.VerifyPassword(context.Background(), "s1", "nb", "secret")
	assert.ErrorIs(t, err, ErrNotebookNotFound)

	// The stale auth entry is gone too: recreate and check no free access.
	factory.uow.notebooks.seed("nb", "other")
	err = svc.SaveContent(context.Background(), "s1", "nb", "should fail")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestCreateValidations(t *testing.T) {
	factory, _, svc := newNotebookFixture(t)
	factory.uow.notebooks.seed("taken", "pw")

	tests := []struct {
		name     string
		slug     string
		password string
		confirm  string
		wantErr  error
	}{
		{"empty password", "nb", "", "", ErrEmptyPassword},
		{"mismatch", "nb", "one", "two", ErrPasswordMismatch},
		{"already exists", "taken", "pw", "pw", ErrNotebookExists},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.Create(context.Background(), "s1", tc.slug, tc.password, tc.confirm)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestCreateSeedsContentAndAuthenticates(t *testing.T) {
	factory, publisher, svc := newNotebookFixture(t)

	err := svc.Create(context.Background(), "s1", "fresh", "secret", "secret")
	require.NoError(t, err)

	n, ok := factory.uow.notebooks.get("fresh")
	require.True(t, ok)
	assert.Contains(t, n.Content, "# fresh")
	assert.NotEmpty(t, n.PasswordHash)
	assert.NotEqual(t, "secret", n.PasswordHash)

	// Creator is immediately authenticated.
	err = svc.SaveContent(context.Background(), "s1", "fresh", "first edit")
	assert.NoError(t, err)

	// Other sessions are not.
	err = svc.SaveContent(context.Background(), "s2", "fresh", "intruder")
	assert.ErrorIs(t, err, ErrUnauthorized)

	assert.GreaterOrEqual(t, publisher.count(), 1)
}

func TestSaveContentChecksAuthBeforeContent(t *testing.T) {
	factory, _, svc := newNotebookFixture(t)
	factory.uow.notebooks.seed("nb", "secret")

	// Unauthorized wins over empty content.
	err := svc.SaveContent(context.Background(), "s1", "nb", "")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.VerifyPassword(context.Background(), "s1", "nb", "secret")
	require.NoError(t, err)

	err = svc.SaveContent(context.Background(), "s1", "nb", "")
	assert.ErrorIs(t, err, ErrEmptyContent)
}

func TestSaveContentVanishedNotebook(t *testing.T) {
	factory, _, svc := newNotebookFixture(t)
	factory.uow.notebooks.seed("nb", "secret")

	_, err := svc.VerifyPassword(context.Background(), "s1", "nb", "secret")
	require.NoError(t, err)

	_, err = factory.uow.notebooks.DeleteBySlug(context.Background(), "nb")
	require.NoError(t, err)

	err = svc.SaveContent(context.Background(), "s1", "nb", "content")
	assert.ErrorIs(t, err, ErrNotebookNotFound)

	// Auth entry was purged along the way.
	factory.uow.notebooks.seed("nb", "secret")
	err = svc.SaveContent(context.Background(), "s1", "nb", "content")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestFlagSettersRequireAuth(t *testing.T) {
	factory, _, svc := newNotebookFixture(t)
	factory.uow.notebooks.seed("nb", "secret")
	ctx := context.Background()

	assert.ErrorIs(t, svc.UpdateSettings(ctx, "s1", "nb", true), ErrUnauthorized)
	assert.ErrorIs(t, svc.UpdatePublic(ctx, "s1", "nb", true), ErrUnauthorized)
	assert.ErrorIs(t, svc.SetArchiveCode(ctx, "s1", "nb", "box-7"), ErrUnauthorized)
	_, err := svc.GetPublicStatus(ctx, "s1", "nb")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.VerifyPassword(ctx, "s1", "nb", "secret")
	require.NoError(t, err)

	require.NoError(t, svc.UpdateSettings(ctx, "s1", "nb", true))
	require.NoError(t, svc.UpdatePublic(ctx, "s1", "nb", true))
	require.NoError(t, svc.SetArchiveCode(ctx, "s1", "nb", "box-7"))

	n, _ := factory.uow.notebooks.get("nb")
	assert.True(t, n.AlwaysRequirePassword)
	assert.True(t, n.IsPublic)
	assert.Equal(t, "box-7", n.ArchiveCode)

	isPublic, err := svc.GetPublicStatus(ctx, "s1", "nb")
	require.NoError(t, err)
	assert.True(t, isPublic)
}

func TestLogoutAlwaysSucceeds(t *testing.T) {
	factory, _, svc := newNotebookFixture(t)
	factory.uow.notebooks.seed("nb", "secret")
	ctx := context.Background()

	// Logout without ever logging in is fine.
	assert.NoError(t, svc.Logout(ctx, "s1", "nb"))

	_, err := svc.VerifyPassword(ctx, "s1", "nb", "secret")
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, "s1", "nb"))

	err = svc.SaveContent(ctx, "s1", "nb", "content")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestReEvaluateOnAccessDemotion(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name            string
		alwaysRequire   bool
		plainNavigation bool
		verifiedMarker  bool
		wantAuthed      bool
	}{
		{"plain navigation demotes", true, true, false, false},
		{"verified navigation keeps auth", true, true, true, true},
		{"in-page action keeps auth", true, false, false, true},
		{"relaxed notebook keeps auth", false, true, false, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			factory, _, svc := newNotebookFixture(t)
			factory.uow.notebooks.seed("nb", "secret", func(n *entity.Notebook) {
				n.AlwaysRequirePassword = tc.alwaysRequire
			})

			_, err := svc.VerifyPassword(ctx, "s1", "nb", "secret")
			require.NoError(t, err)

			authed, err := svc.ReEvaluateOnAccess(ctx, "s1", "nb", tc.plainNavigation, tc.verifiedMarker)
			require.NoError(t, err)
			assert.Equal(t, tc.wantAuthed, authed)

			// Demotion is durable, not just a reply.
			err = svc.SaveContent(ctx, "s1", "nb", "after access")
			if tc.wantAuthed {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrUnauthorized)
			}
		})
	}
}

func TestReEvaluateUnauthenticatedStaysOut(t *testing.T) {
	factory, _, svc := newNotebookFixture(t)
	factory.uow.notebooks.seed("nb", "secret")

	authed, err := svc.ReEvaluateOnAccess(context.Background(), "s1", "nb", true, false)
	require.NoError(t, err)
	assert.False(t, authed)
}

func TestGetStateMissingNotebook(t *testing.T) {
	_, _, svc := newNotebookFixture(t)

	state, err := svc.GetState(context.Background(), "s1", "ghost", true, "")
	require.NoError(t, err)
	assert.False(t, state.Exists)
	assert.False(t, state.Authenticated)
	assert.Nil(t, state.Content)
}

func TestGetStateHidesContentFromStrangers(t *testing.T) {
	factory, _, svc := newNotebookFixture(t)
	factory.uow.notebooks.seed("nb", "secret")

	state, err := svc.GetState(context.Background(), "s1", "nb", true, "")
	require.NoError(t, err)
	assert.True(t, state.Exists)
	assert.False(t, state.Authenticated)
	assert.Nil(t, state.Content)
	assert.Nil(t, state.UpdatedAt)
}

func TestGetStatePublicNotebookIsReadable(t *testing.T) {
	factory, _, svc := newNotebookFixture(t)
	factory.uow.notebooks.seed("nb", "secret", func(n *entity.Notebook) {
		n.IsPublic = true
	})

	state, err := svc.GetState(context.Background(), "s1", "nb", true, "")
	require.NoError(t, err)
	assert.True(t, state.IsPublic)
	assert.False(t, state.Authenticated)
	require.NotNil(t, state.Content)
	assert.Equal(t, "seeded content", *state.Content)
}

func TestGetStateUnlockTokenSurvivesNavigation(t *testing.T) {
	factory, _, svc := newNotebookFixture(t)
	factory.uow.notebooks.seed("nb", "secret", func(n *entity.Notebook) {
		n.AlwaysRequirePassword = true
	})
	ctx := context.Background()

	res, err := svc.VerifyPassword(ctx, "s1", "nb", "secret")
	require.NoError(t, err)

	// The navigation right after verification carries the token and stays in.
	state, err := svc.GetState(ctx, "s1", "nb", true, res.UnlockToken)
	require.NoError(t, err)
	assert.True(t, state.Authenticated)
	require.NotNil(t, state.Content)

	// The next plain navigation without the token demotes.
	state, err = svc.GetState(ctx, "s1", "nb", true, "")
	require.NoError(t, err)
	assert.False(t, state.Authenticated)
	assert.Nil(t, state.Content)
}

func TestGetStateForeignUnlockTokenIgnored(t *testing.T) {
	factory, _, svc := newNotebookFixture(t)
	factory.uow.notebooks.seed("nb", "secret", func(n *entity.Notebook) {
		n.AlwaysRequirePassword = true
	})
	factory.uow.notebooks.seed("other", "secret")
	ctx := context.Background()

	_, err := svc.VerifyPassword(ctx, "s1", "nb", "secret")
	require.NoError(t, err)
	otherRes, err := svc.VerifyPassword(ctx, "s1", "other", "secret")
	require.NoError(t, err)

	// A token minted for another notebook does not protect this one.
	state, err := svc.GetState(ctx, "s1", "nb", true, otherRes.UnlockToken)
	require.NoError(t, err)
	assert.False(t, state.Authenticated)
}

func TestFullOwnerRoundTrip(t *testing.T) {
	factory, _, svc := newNotebookFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, "s1", "trip42", "pw", "pw"))
	require.NoError(t, svc.SaveContent(ctx, "s1", "trip42", "# Trip notes"))
	require.NoError(t, svc.UpdateSettings(ctx, "s1", "trip42", true))
	require.NoError(t, svc.Logout(ctx, "s1", "trip42"))

	// Locked out again.
	err := svc.SaveContent(ctx, "s1", "trip42", "more")
	assert.ErrorIs(t, err, ErrUnauthorized)

	res, err := svc.VerifyPassword(ctx, "s1", "trip42", "pw")
	require.NoError(t, err)
	assert.True(t, res.AlwaysRequirePassword)

	state, err := svc.GetState(ctx, "s1", "trip42", true, res.UnlockToken)
	require.NoError(t, err)
	require.NotNil(t, state.Content)
	assert.Equal(t, "# Trip notes", *state.Content)

	n, _ := factory.uow.notebooks.get("trip42")
	assert.True(t, n.AlwaysRequirePassword)
}

func TestPublishedEventsCarryAction(t *testing.T) {
	_, publisher, svc := newNotebookFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, "s1", "nb", "pw", "pw"))
	require.NoError(t, svc.SaveContent(ctx, "s1", "nb", "hello"))

	publisher.mu.Lock()
	defer publisher.mu.Unlock()
	require.Len(t, publisher.payloads, 2)

	var first, second dto.NotebookEventMessage
	require.NoError(t, json.Unmarshal(publisher.payloads[0], &first))
	require.NoError(t, json.Unmarshal(publisher.payloads[1], &second))
	assert.Equal(t, "notebook_created", first.Action)
	assert.Equal(t, "content_saved", second.Action)
	assert.Equal(t, entity.ActorOwner, second.Actor)
	assert.EqualValues(t, len("hello"), second.Details["content_bytes"])
}
