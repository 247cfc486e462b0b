package activity

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pokeshop/storefront/internal/client/bus"
	"github.com/pokeshop/storefront/internal/client/models"
	"github.com/pokeshop/storefront/internal/logging"
)

type fakeAPI struct {
	appendErr   error
	listErr     error
	list        []models.ActivityEvent
	appendCalls int
}

func (f *fakeAPI) Activities(ctx context.Context) ([]models.ActivityEvent, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.list, nil
}

func (f *fakeAPI) AppendActivity(ctx context.Context, typ, title, description string) (*models.ActivityEvent, error) {
	f.appendCalls++
	if f.appendErr != nil {
		return nil, f.appendErr
	}
	return &models.ActivityEvent{
		ID:          fmt.Sprintf("a%d", f.appendCalls),
		Type:        typ,
		Title:       title,
		Description: description,
		Timestamp:   time.Now().UTC(),
	}, nil
}

type fakeIdentity struct{ loggedIn bool }

func (f *fakeIdentity) IsLoggedIn() bool { return f.loggedIn }

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func setupLog(t *testing.T, client *fakeAPI, loggedIn bool) (*Log, *bus.Bus) {
	t.Helper()
	b := bus.New()
	return NewLog(client, &fakeIdentity{loggedIn: loggedIn}, b, discardLogger()), b
}

func TestRecord_PrependsAfterServerAck(t *testing.T) {
	client := &fakeAPI{}
	l, b := setupLog(t, client, true)

	var published []any
	b.Subscribe(bus.TopicActivityAppended, func(p any) { published = append(published, p) })

	l.Record(context.Background(), models.ActivityAddCart, "Producto añadido", "Has añadido Pikachu Plush al carrito")
	l.Record(context.Background(), models.ActivityFavorite, "Añadido a favoritos", "Agregaste Eevee Plush a tu lista")

	recent := l.Recent()
	require.Len(t, recent, 2)
	assert.Equal(t, models.ActivityFavorite, recent[0].Type, "newest first")
	assert.Equal(t, models.ActivityAddCart, recent[1].Type)
	assert.Len(t, published, 2)
}

func TestRecord_Unauthenticated_IsANoOp(t *testing.T) {
	client := &fakeAPI{}
	l, _ := setupLog(t, client, false)

	l.Record(context.Background(), models.ActivityAddCart, "t", "d")

	assert.Zero(t, client.appendCalls, "no remote call without a user")
	assert.Empty(t, l.Recent())
}

func TestRecord_RemoteFailure_LeavesLocalLogUnchanged(t *testing.T) {
	client := &fakeAPI{}
	l, b := setupLog(t, client, true)

	l.Record(context.Background(), models.ActivityAddCart, "t", "d")
	require.Len(t, l.Recent(), 1)

	published := 0
	b.Subscribe(bus.TopicActivityAppended, func(any) { published++ })

	client.appendErr = errors.New("backend down")
	l.Record(context.Background(), models.ActivityRemoveCart, "t2", "d2")

	recent := l.Recent()
	assert.Len(t, recent, 1, "no optimistic entry on failure")
	assert.Equal(t, models.ActivityAddCart, recent[0].Type)
	assert.Zero(t, published)
}

func TestRecord_NeverExceedsTwentyEntries(t *testing.T) {
	client := &fakeAPI{}
	l, _ := setupLog(t, client, true)

	for i := 0; i < 25; i++ {
		l.Record(context.Background(), models.ActivityAddCart, "t", fmt.Sprintf("event %d", i))
	}

	recent := l.Recent()
	require.Len(t, recent, 20)
	assert.Equal(t, "event 24", recent[0].Description, "newest first after truncation")
	assert.Equal(t, "event 5", recent[19].Description)
}

func TestRefresh_ReplacesLocalView(t *testing.T) {
	client := &fakeAPI{list: []models.ActivityEvent{
		{ID: "s2", Type: models.ActivityPurchase},
		{ID: "s1", Type: models.ActivityLogin},
	}}
	l, _ := setupLog(t, client, true)

	require.NoError(t, l.Refresh(context.Background()))

	recent := l.Recent()
	require.Len(t, recent, 2)
	assert.Equal(t, "s2", recent[0].ID)
}

func TestRefresh_TruncatesServerOverflow(t *testing.T) {
	client := &fakeAPI{}
	for i := 0; i < 30; i++ {
		client.list = append(client.list, models.ActivityEvent{ID: fmt.Sprintf("s%d", i)})
	}
	l, _ := setupLog(t, client, true)

	require.NoError(t, l.Refresh(context.Background()))
	assert.Len(t, l.Recent(), 20)
}

func TestRefresh_WithoutIdentity_Empties(t *testing.T) {
	client := &fakeAPI{list: []models.ActivityEvent{{ID: "s1"}}}
	identity := &fakeIdentity{loggedIn: true}
	b := bus.New()
	l := NewLog(client, identity, b, discardLogger())

	require.NoError(t, l.Refresh(context.Background()))
	require.Len(t, l.Recent(), 1)

	identity.loggedIn = false
	require.NoError(t, l.Refresh(context.Background()))
	assert.Empty(t, l.Recent())
}

func TestLogout_EmptiesFeed(t *testing.T) {
	client := &fakeAPI{}
	l, b := setupLog(t, client, true)

	l.Record(context.Background(), models.ActivityLogin, "Inicio de sesión", "Bienvenido al panel, Ash")
	require.Len(t, l.Recent(), 1)

	b.Publish(bus.TopicUserLoggedOut, nil)
	assert.Empty(t, l.Recent())
}
