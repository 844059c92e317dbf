package files

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filebridge/service/internal/discord"
)

type fakeBot struct {
	createdMsg *discord.Message
	createErr  error
	gotMsg     *discord.Message
	getErr     error
	deleteErr  error
	identity   *discord.BotIdentity
	probeErr   error

	createCalls int
	getCalls    int
	deleteCalls int
	probeCalls  int
}

func (f *fakeBot) CreateMessage(_ context.Context, _, _, _ string, _ []byte) (*discord.Message, error) {
	f.createCalls++
	return f.createdMsg, f.createErr
}

func (f *fakeBot) GetMessage(_ context.Context, _, _ string) (*discord.Message, error) {
	f.getCalls++
	return f.gotMsg, f.getErr
}

func (f *fakeBot) DeleteMessage(_ context.Context, _, _ string) error {
	f.deleteCalls++
	return f.deleteErr
}

func (f *fakeBot) Probe(_ context.Context) (*discord.BotIdentity, error) {
	f.probeCalls++
	return f.identity, f.probeErr
}

type fakeWebhook struct {
	createdMsg *discord.Message
	createErr  error
	gotMsg     *discord.Message
	getErr     error
	deleteErr  error
	info       *discord.WebhookInfo
	probeErr   error

	createCalls int
	getCalls    int
	deleteCalls int
	probeCalls  int
}

func (f *fakeWebhook) Execute(_ context.Context, _, _ string, _ []byte) (*discord.Message, error) {
	f.createCalls++
	return f.createdMsg, f.createErr
}

func (f *fakeWebhook) GetMessage(_ context.Context, _ string) (*discord.Message, error) {
	f.getCalls++
	return f.gotMsg, f.getErr
}

func (f *fakeWebhook) DeleteMessage(_ context.Context, _ string) error {
	f.deleteCalls++
	return f.deleteErr
}

func (f *fakeWebhook) Probe(_ context.Context) (*discord.WebhookInfo, error) {
	f.probeCalls++
	return f.info, f.probeErr
}

func attachedMsg(id string) *discord.Message {
	return &discord.Message{
		ID:        id,
		ChannelID: "123",
		Attachments: []discord.RawAttachment{
			{ID: "a-" + id, Filename: "f.bin", Size: 3, ContentType: "application/octet-stream", URL: "https://cdn/" + id},
		},
	}
}

func botOnlyStore(bot *fakeBot) *Store {
	return &Store{cfg: discord.Config{BotToken: "tok", ChannelID: "123"}, bot: bot}
}

func webhookOnlyStore(wh *fakeWebhook) *Store {
	return &Store{cfg: discord.Config{WebhookURL: "https://host/webhooks/1/tok"}, webhook: wh}
}

func bothStore(bot *fakeBot, wh *fakeWebhook) *Store {
	return &Store{
		cfg:     discord.Config{BotToken: "tok", ChannelID: "123", WebhookURL: "https://host/webhooks/1/tok"},
		bot:     bot,
		webhook: wh,
	}
}

func TestNewStoreDerivesEnablementFromConfig(t *testing.T) {
	s := NewStore(discord.Config{WebhookURL: "https://host/webhooks/1/tok"})
	assert.False(t, s.botEnabled(), "webhook-only config must not enable the bot")
	assert.True(t, s.webhookEnabled())

	s = NewStore(discord.Config{BotToken: "tok"})
	assert.False(t, s.botEnabled(), "token without channel is not a usable bot backend")
}

func TestUploadWebhookOnlyNeverTouchesBot(t *testing.T) {
	wh := &fakeWebhook{createdMsg: attachedMsg("2")}
	s := webhookOnlyStore(wh)

	up, err := s.Upload(context.Background(), "f.bin", "", []byte{1})
	require.NoError(t, err)
	assert.Equal(t, ModeWebhook, up.Mode)
	assert.Equal(t, 1, wh.createCalls)
}

func TestUploadBotSuccessShortCircuits(t *testing.T) {
	bot := &fakeBot{createdMsg: attachedMsg("1")}
	wh := &fakeWebhook{createdMsg: attachedMsg("2")}

	up, err := bothStore(bot, wh).Upload(context.Background(), "f.bin", "", []byte{1})
	require.NoError(t, err)
	assert.Equal(t, ModeBot, up.Mode)
	assert.Equal(t, "https://cdn/1", up.URL)
	assert.Zero(t, wh.createCalls, "webhook must not be called after bot success")
}

func TestUploadFallsBackToWebhook(t *testing.T) {
	bot := &fakeBot{createErr: errors.New("connection refused")}
	wh := &fakeWebhook{createdMsg: attachedMsg("2")}

	up, err := bothStore(bot, wh).Upload(context.Background(), "f.bin", "", []byte{1})
	require.NoError(t, err)
	assert.Equal(t, ModeWebhook, up.Mode)
	assert.Equal(t, 1, bot.createCalls)
	assert.Equal(t, 1, wh.createCalls)
}

func TestUploadAggregatesLabeledErrors(t *testing.T) {
	bot := &fakeBot{createErr: errors.New("bot down")}
	wh := &fakeWebhook{createErr: errors.New("webhook down")}

	_, err := bothStore(bot, wh).Upload(context.Background(), "f.bin", "", []byte{1})
	require.Error(t, err)

	var errs BackendErrors
	require.ErrorAs(t, err, &errs)
	require.Len(t, errs, 2)
	assert.Equal(t, ModeBot, errs[0].Backend)
	assert.Equal(t, ModeWebhook, errs[1].Backend)
	assert.Equal(t, "bot: bot down; webhook: webhook down", err.Error())
}

func TestUploadNoBackends(t *testing.T) {
	s := &Store{}
	_, err := s.Upload(context.Background(), "f.bin", "", []byte{1})
	assert.ErrorIs(t, err, ErrNoBackends)
}

func TestLookupFoundShortCircuits(t *testing.T) {
	bot := &fakeBot{gotMsg: attachedMsg("987")}
	wh := &fakeWebhook{gotMsg: attachedMsg("987")}

	up, err := bothStore(bot, wh).Lookup(context.Background(), "123", "987")
	require.NoError(t, err)
	assert.Equal(t, ModeBot, up.Mode)
	assert.Zero(t, wh.getCalls)
}

func TestLookupConfirmedAbsent(t *testing.T) {
	bot := &fakeBot{getErr: &discord.APIError{Status: 404, Message: "Unknown Message"}}

	_, err := botOnlyStore(bot).Lookup(context.Background(), "123", "987")
	assert.ErrorIs(t, err, ErrAbsent)
}

func TestLookupTransportErrorOutranksAbsence(t *testing.T) {
	// bot confirms absence, webhook errors: the caller must not be told the
	// file is gone when a backend was unreachable.
	bot := &fakeBot{getErr: &discord.APIError{Status: 404}}
	wh := &fakeWebhook{getErr: errors.New("timeout")}

	_, err := bothStore(bot, wh).Lookup(context.Background(), "123", "987")
	var errs BackendErrors
	require.ErrorAs(t, err, &errs)
	require.Len(t, errs, 1)
	assert.Equal(t, ModeWebhook, errs[0].Backend)
}

func TestLookupNoBackends(t *testing.T) {
	s := &Store{}
	_, err := s.Lookup(context.Background(), "123", "987")
	assert.ErrorIs(t, err, ErrNoBackends)
	assert.NotErrorIs(t, err, ErrAbsent)
}

func TestLookupMessageWithoutAttachmentIsAbsent(t *testing.T) {
	bot := &fakeBot{gotMsg: &discord.Message{ID: "987", ChannelID: "123"}}
	_, err := botOnlyStore(bot).Lookup(context.Background(), "123", "987")
	assert.ErrorIs(t, err, ErrAbsent)
}

func TestDeleteBotFirst(t *testing.T) {
	bot := &fakeBot{}
	wh := &fakeWebhook{}

	ok := bothStore(bot, wh).Delete(context.Background(), "123", "987")
	assert.True(t, ok)
	assert.Equal(t, 1, bot.deleteCalls)
	assert.Zero(t, wh.deleteCalls)
}

func TestDeleteFallsThroughToWebhook(t *testing.T) {
	bot := &fakeBot{deleteErr: &discord.APIError{Status: 403}}
	wh := &fakeWebhook{}

	ok := bothStore(bot, wh).Delete(context.Background(), "123", "987")
	assert.True(t, ok)
	assert.Equal(t, 1, wh.deleteCalls)
}

func TestDeleteUnconfiguredReturnsFalse(t *testing.T) {
	s := &Store{}
	assert.False(t, s.Delete(context.Background(), "123", "987"))
}

func TestStatusBothHealthy(t *testing.T) {
	bot := &fakeBot{identity: &discord.BotIdentity{Username: "filebot"}}
	wh := &fakeWebhook{info: &discord.WebhookInfo{Name: "uploader", ChannelID: "456"}}

	st := bothStore(bot, wh).Status(context.Background())
	assert.True(t, st.Connected)
	assert.Equal(t, ModeBoth, st.Mode)
	assert.Equal(t, "filebot", st.Name)
	assert.Equal(t, "123", st.ChannelID)
	assert.Equal(t, 1, bot.probeCalls)
	assert.Equal(t, 1, wh.probeCalls, "health check must probe all backends")
}

func TestStatusOneHealthy(t *testing.T) {
	bot := &fakeBot{probeErr: errors.New("invalid token")}
	wh := &fakeWebhook{info: &discord.WebhookInfo{Name: "uploader", ChannelID: "456"}}

	st := bothStore(bot, wh).Status(context.Background())
	assert.True(t, st.Connected)
	assert.Equal(t, ModeWebhook, st.Mode)
	assert.Equal(t, "uploader", st.Name)
	assert.Equal(t, "456", st.ChannelID)
}

func TestStatusDisconnected(t *testing.T) {
	st := (&Store{}).Status(context.Background())
	assert.False(t, st.Connected)
	assert.Equal(t, ModeNone, st.Mode)

	bot := &fakeBot{probeErr: errors.New("down")}
	wh := &fakeWebhook{probeErr: errors.New("down")}
	st = bothStore(bot, wh).Status(context.Background())
	assert.False(t, st.Connected)
	assert.Equal(t, ModeNone, st.Mode)
}
