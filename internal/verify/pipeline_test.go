package verify

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gameservices/discordgw/internal/discord"
)

type fakeExchanger struct {
	calls    int
	lastCode string
	lastURI  string
	token    *discord.Token
	err      error
}

func (f *fakeExchanger) ExchangeCode(ctx context.Context, code, redirectURI string) (*discord.Token, error) {
	f.calls++
	f.lastCode = code
	f.lastURI = redirectURI
	return f.token, f.err
}

type fakeFetcher struct {
	userCalls  int
	guildCalls int
	user       *discord.User
	userErr    error
	guilds     []discord.Guild
}

func (f *fakeFetcher) FetchUser(ctx context.Context, accessToken string) (*discord.User, error) {
	f.userCalls++
	return f.user, f.userErr
}

func (f *fakeFetcher) FetchGuilds(ctx context.Context, accessToken string) []discord.Guild {
	f.guildCalls++
	return f.guilds
}

type fakeStore struct {
	saved []*Record
	err   error
}

func (f *fakeStore) SaveVerification(ctx context.Context, record *Record) (string, error) {
	f.saved = append(f.saved, record)
	if f.err != nil {
		return "", f.err
	}
	return record.ID, nil
}

type fakeNotifier struct {
	sent []*Record
	err  error
}

func (f *fakeNotifier) Send(ctx context.Context, record *Record) error {
	f.sent = append(f.sent, record)
	return f.err
}

type pipelineFixture struct {
	exchanger *fakeExchanger
	fetcher   *fakeFetcher
	store     *fakeStore
	notifier  *fakeNotifier
	pipeline  *Pipeline
}

func newPipelineFixture() *pipelineFixture {
	f := &pipelineFixture{
		exchanger: &fakeExchanger{
			token: &discord.Token{
				AccessToken:  "tok1",
				RefreshToken: "ref1",
				Scopes:       []string{"identify", "email", "guilds"},
			},
		},
		fetcher: &fakeFetcher{
			user:   &discord.User{ID: "42", Username: "alice"},
			guilds: []discord.Guild{{ID: "1", Name: "G1"}},
		},
		store:    &fakeStore{},
		notifier: &fakeNotifier{},
	}
	f.pipeline = NewPipelineWith(f.exchanger, f.fetcher, f.store, f.notifier)
	return f
}

func callbackRequest() *CallbackRequest {
	return &CallbackRequest{
		Code:      "abc123",
		Origin:    "https://gw.example.com",
		SourceIP:  "203.0.113.9",
		UserAgent: "test-agent",
	}
}

func TestPipelineProviderErrorSkipsExchange(t *testing.T) {
	f := newPipelineFixture()

	req := callbackRequest()
	req.ProviderError = "access_denied"

	outcome := f.pipeline.Run(context.Background(), req)

	assert.Equal(t, "/verify?error=access_denied", outcome.Location)
	assert.Zero(t, f.exchanger.calls, "must not contact the provider after a reported denial")
	assert.Zero(t, f.fetcher.userCalls)
	assert.Empty(t, f.store.saved)
}

func TestPipelineNoCode(t *testing.T) {
	f := newPipelineFixture()

	req := callbackRequest()
	req.Code = ""

	outcome := f.pipeline.Run(context.Background(), req)

	assert.Equal(t, "/verify?error=no_code", outcome.Location)
	assert.Zero(t, f.exchanger.calls, "zero outbound calls on a code-less request")
	assert.Zero(t, f.fetcher.userCalls)
	assert.Zero(t, f.fetcher.guildCalls)
}

func TestPipelineTokenExchangeFailure(t *testing.T) {
	f := newPipelineFixture()
	f.exchanger.token = nil
	f.exchanger.err = &discord.ExchangeError{StatusCode: 400, ProviderMessage: `{"error":"invalid_grant"}`}

	outcome := f.pipeline.Run(context.Background(), callbackRequest())

	assert.Equal(t, `/verify?error=token_failed&details=%7B%22error%22%3A%22invalid_grant%22%7D`, outcome.Location)
	assert.Zero(t, f.fetcher.userCalls, "no profile fetch after a failed exchange")
	assert.Empty(t, f.store.saved)
	assert.Empty(t, f.notifier.sent)
}

func TestPipelineUserFetchFailure(t *testing.T) {
	f := newPipelineFixture()
	f.fetcher.user = nil
	f.fetcher.userErr = &discord.FetchError{StatusCode: 401, ProviderMessage: "unauthorized"}

	outcome := f.pipeline.Run(context.Background(), callbackRequest())

	// A successful exchange followed by a profile failure is user_failed,
	// never token_failed
	assert.Equal(t, "/verify?error=user_failed", outcome.Location)
	assert.Equal(t, 1, f.exchanger.calls)
	assert.Zero(t, f.fetcher.guildCalls)
	assert.Empty(t, f.store.saved)
}

func TestPipelineStoreFailureStillSucceeds(t *testing.T) {
	f := newPipelineFixture()
	f.store.err = errors.New("store outage")

	outcome := f.pipeline.Run(context.Background(), callbackRequest())

	assert.True(t, outcome.Success(), "persistence failures are invisible to the end user")
	assert.Len(t, f.store.saved, 1)
	assert.Len(t, f.notifier.sent, 1, "notification still runs after a failed write")
}

func TestPipelineNotifierFailureStillSucceeds(t *testing.T) {
	f := newPipelineFixture()
	f.notifier.err = errors.New("webhook down")

	outcome := f.pipeline.Run(context.Background(), callbackRequest())

	assert.True(t, outcome.Success())
}

func TestPipelineSuccessEndToEnd(t *testing.T) {
	f := newPipelineFixture()

	outcome := f.pipeline.Run(context.Background(), callbackRequest())

	assert.Equal(t, "/verify?status=success", outcome.Location)
	assert.Equal(t, "abc123", f.exchanger.lastCode)
	assert.Equal(t, "https://gw.example.com/api/auth/callback", f.exchanger.lastURI)

	require.Len(t, f.store.saved, 1)
	got := f.store.saved[0]

	want := &Record{
		DiscordID:        "42",
		Username:         "alice",
		Discriminator:    "0000",
		AccessToken:      "tok1",
		RefreshToken:     "ref1",
		Scopes:           []string{"identify", "email", "guilds"},
		Guilds:           []discord.Guild{{ID: "1", Name: "G1"}},
		VerificationCode: "abc123",
		IPAddress:        "203.0.113.9",
		UserAgent:        "test-agent",
		Status:           StatusVerified,
	}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(Record{}, "ID", "CreatedAt")); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}
	assert.NotEmpty(t, got.ID)
	assert.False(t, got.CreatedAt.IsZero())

	require.Len(t, f.notifier.sent, 1)
	assert.Same(t, got, f.notifier.sent[0])
}
