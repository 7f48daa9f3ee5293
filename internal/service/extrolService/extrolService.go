package extrolService

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/KotFed0t/extrol_cli/data/cache"
	"github.com/KotFed0t/extrol_cli/internal/externalApi"
	"github.com/KotFed0t/extrol_cli/internal/model"
	"github.com/KotFed0t/extrol_cli/internal/projection"
	"github.com/KotFed0t/extrol_cli/internal/service"
	"github.com/KotFed0t/extrol_cli/utils"
)

const (
	loadFailedMsg   = "Failed to load entries"
	saveFailedMsg   = "Save failed"
	updateFailedMsg = "Update failed"
	deleteFailedMsg = "Delete failed"

	networkLoadMsg   = "Network error loading entries"
	networkSaveMsg   = "Network error saving entry"
	networkDeleteMsg = "Network error deleting entry"

	invalidPriceMsg = "Enter a valid price"

	addedMsg   = "Entry added successfully"
	updatedMsg = "Entry updated successfully"
	deletedMsg = "Entry deleted successfully"
)

type EntriesApi interface {
	ListEntries(ctx context.Context, token string) ([]model.Entry, error)
	CreateEntry(ctx context.Context, token string, draft model.EntryDraft) (model.Entry, error)
	UpdateEntry(ctx context.Context, token, id string, draft model.EntryDraft) (model.Entry, error)
	DeleteEntry(ctx context.Context, token, id string) error
}

type Cache interface {
	SaveSession(ctx context.Context, session model.Session) error
	LoadSession(ctx context.Context) (model.Session, error)
	Clear(ctx context.Context) error
	SavePrefetch(ctx context.Context, entries []model.Entry) error
	TakePrefetch(ctx context.Context) ([]model.Entry, error)
}

// UI is the view-update boundary. The service pushes messages, navigation
// signals and the projected list; it never renders anything itself.
type UI interface {
	ShowError(msg string)
	ShowSuccess(msg string)
	NavigateToAuth()
	NavigateToDashboard()
	RenderList(entries []model.Entry, stats model.Stats)
}

// ExtrolService owns the session and the entry store and keeps both in
// sync with the remote API. Mutations are confirm-then-apply: the store
// changes only after the server said yes. Errors are routed to the UI and
// also returned so callers can report exit status without re-printing.
type ExtrolService struct {
	api   EntriesApi
	cache Cache
	ui    UI

	mu      sync.Mutex
	session model.Session
	// epoch increments on every session change; in-flight results from an
	// older epoch are discarded on arrival.
	epoch   uint64
	search  string
	sortKey model.SortKey

	store entryStore
}

func New(api EntriesApi, cache Cache, ui UI) *ExtrolService {
	return &ExtrolService{
		api:     api,
		cache:   cache,
		ui:      ui,
		sortKey: model.SortDateDesc,
	}
}

// Startup restores the cached session, if any, and hydrates the store.
// A missing or corrupt cached session lands on the auth view, never an
// error.
func (s *ExtrolService) Startup(ctx context.Context) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "ExtrolService.Startup"

	slog.Debug("Startup start", slog.String("rqID", rqID), slog.String("op", op))

	sess, err := s.cache.LoadSession(ctx)
	if err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			slog.Error("got error from cache.LoadSession", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
		s.ui.NavigateToAuth()
		return nil
	}

	return s.Login(ctx, sess)
}

// Login enters the Authenticated state with a (token, user) pair obtained
// by the auth collaborator, persists it and hydrates the store.
func (s *ExtrolService) Login(ctx context.Context, sess model.Session) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "ExtrolService.Login"

	slog.Debug("Login start", slog.String("rqID", rqID), slog.String("op", op), slog.String("user", sess.User.DisplayName()))

	s.mu.Lock()
	s.session = sess
	s.epoch++
	s.mu.Unlock()

	if err := s.cache.SaveSession(ctx, sess); err != nil {
		slog.Error("got error from cache.SaveSession", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	s.ui.NavigateToDashboard()

	return s.Hydrate(ctx)
}

// Logout is idempotent: cache cleared, store and view params reset, auth
// view signalled. In-flight request results die on the epoch bump.
func (s *ExtrolService) Logout(ctx context.Context) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "ExtrolService.Logout"

	slog.Debug("Logout start", slog.String("rqID", rqID), slog.String("op", op))

	s.mu.Lock()
	s.session = model.Session{}
	s.epoch++
	s.search = ""
	s.sortKey = model.SortDateDesc
	s.mu.Unlock()

	s.store.reset()

	if err := s.cache.Clear(ctx); err != nil {
		slog.Error("got error from cache.Clear", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	s.ui.NavigateToAuth()
}

// Hydrate populates the store in two phases: the cached prefetch renders
// immediately if present, then the authoritative list replaces it
// wholesale. The network phase always runs; network truth always wins.
func (s *ExtrolService) Hydrate(ctx context.Context) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "ExtrolService.Hydrate"

	slog.Debug("Hydrate start", slog.String("rqID", rqID), slog.String("op", op))

	if entries, err := s.cache.TakePrefetch(ctx); err == nil {
		slog.Debug("adopting prefetched entries", slog.String("rqID", rqID), slog.String("op", op), slog.Int("count", len(entries)))
		s.store.replaceAll(entries)
		s.render()
	}

	return s.Refresh(ctx)
}

// Refresh fetches the authoritative entry list and replaces the store.
func (s *ExtrolService) Refresh(ctx context.Context) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "ExtrolService.Refresh"

	token, epoch, err := s.sessionSnapshot()
	if err != nil {
		return err
	}

	entries, err := s.api.ListEntries(ctx, token)
	if err != nil {
		slog.Error("got error from api.ListEntries", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return s.surfaceError(ctx, err, loadFailedMsg, networkLoadMsg)
	}

	if !s.stillCurrent(epoch) {
		slog.Info("discarding stale list result", slog.String("rqID", rqID), slog.String("op", op))
		return nil
	}

	s.store.replaceAll(entries)
	s.render()

	if err := s.cache.SavePrefetch(ctx, entries); err != nil {
		slog.Error("got error from cache.SavePrefetch", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	return nil
}

func (s *ExtrolService) SetSearch(text string) {
	s.mu.Lock()
	s.search = text
	s.mu.Unlock()
	s.render()
}

func (s *ExtrolService) SetSort(key model.SortKey) {
	s.mu.Lock()
	s.sortKey = key
	s.mu.Unlock()
	s.render()
}

// SubmitCreate validates locally, then appends the server-assigned entry
// on success. A non-positive price never reaches the network.
func (s *ExtrolService) SubmitCreate(ctx context.Context, draft model.EntryDraft) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "ExtrolService.SubmitCreate"

	slog.Debug("SubmitCreate start", slog.String("rqID", rqID), slog.String("op", op))

	if err := s.validateDraft(draft); err != nil {
		return err
	}

	token, epoch, err := s.sessionSnapshot()
	if err != nil {
		return err
	}

	entry, err := s.api.CreateEntry(ctx, token, draft)
	if err != nil {
		slog.Error("got error from api.CreateEntry", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return s.surfaceError(ctx, err, saveFailedMsg, networkSaveMsg)
	}

	if !s.stillCurrent(epoch) {
		slog.Info("discarding stale create result", slog.String("rqID", rqID), slog.String("op", op))
		return nil
	}

	s.store.append(entry)
	s.ui.ShowSuccess(addedMsg)
	s.render()

	return nil
}

// SubmitUpdate replaces the three mutable fields of the entry. A local
// id miss after server confirmation is an anomaly, not a failure: it is
// logged, the store stays untouched and success still surfaces.
func (s *ExtrolService) SubmitUpdate(ctx context.Context, id string, draft model.EntryDraft) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "ExtrolService.SubmitUpdate"

	slog.Debug("SubmitUpdate start", slog.String("rqID", rqID), slog.String("op", op), slog.String("entryID", id))

	if err := s.validateDraft(draft); err != nil {
		return err
	}

	token, epoch, err := s.sessionSnapshot()
	if err != nil {
		return err
	}

	entry, err := s.api.UpdateEntry(ctx, token, id, draft)
	if err != nil {
		slog.Error("got error from api.UpdateEntry", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return s.surfaceError(ctx, err, updateFailedMsg, networkSaveMsg)
	}

	if !s.stillCurrent(epoch) {
		slog.Info("discarding stale update result", slog.String("rqID", rqID), slog.String("op", op))
		return nil
	}

	if ok := s.store.updateByID(entry); !ok {
		slog.Warn("server confirmed update for entry missing locally", slog.String("rqID", rqID), slog.String("op", op), slog.String("entryID", entry.ID))
	}
	s.ui.ShowSuccess(updatedMsg)
	s.render()

	return nil
}

// SubmitDelete removes the entry on server confirmation. User
// confirmation happens in the plumbing before this is called.
func (s *ExtrolService) SubmitDelete(ctx context.Context, id string) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "ExtrolService.SubmitDelete"

	slog.Debug("SubmitDelete start", slog.String("rqID", rqID), slog.String("op", op), slog.String("entryID", id))

	token, epoch, err := s.sessionSnapshot()
	if err != nil {
		return err
	}

	if err := s.api.DeleteEntry(ctx, token, id); err != nil {
		slog.Error("got error from api.DeleteEntry", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return s.surfaceError(ctx, err, deleteFailedMsg, networkDeleteMsg)
	}

	if !s.stillCurrent(epoch) {
		slog.Info("discarding stale delete result", slog.String("rqID", rqID), slog.String("op", op))
		return nil
	}

	s.store.removeByID(id)
	s.ui.ShowSuccess(deletedMsg)
	s.render()

	return nil
}

// Entries returns a snapshot of the full unfiltered store.
func (s *ExtrolService) Entries() []model.Entry {
	return s.store.snapshot()
}

func (s *ExtrolService) Stats() model.Stats {
	return projection.Stats(s.store.snapshot())
}

func (s *ExtrolService) Session() model.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

func (s *ExtrolService) validateDraft(draft model.EntryDraft) error {
	if draft.Price.Sign() <= 0 {
		s.ui.ShowError(invalidPriceMsg)
		return service.ErrValidation
	}
	return nil
}

func (s *ExtrolService) sessionSnapshot() (token string, epoch uint64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.session.IsAuthenticated() {
		return "", 0, service.ErrUnauthenticated
	}
	return s.session.Token, s.epoch, nil
}

// stillCurrent re-validates the session on resume from a network call:
// a result that lands after logout (or re-login) must be discarded.
func (s *ExtrolService) stillCurrent(epoch uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.IsAuthenticated() && s.epoch == epoch
}

func (s *ExtrolService) render() {
	s.mu.Lock()
	search, sortKey := s.search, s.sortKey
	s.mu.Unlock()

	list, stats := projection.Project(s.store.snapshot(), search, sortKey)
	s.ui.RenderList(list, stats)
}

// surfaceError routes a remote failure to the UI: the server-supplied
// message verbatim when present, the per-operation fallback otherwise.
// A 401 additionally tears the session down.
func (s *ExtrolService) surfaceError(ctx context.Context, err error, remoteFallback, networkMsg string) error {
	var remoteErr *externalApi.RemoteError
	if errors.As(err, &remoteErr) {
		msg := remoteErr.Message
		if msg == "" {
			msg = remoteFallback
		}
		s.ui.ShowError(msg)
		if remoteErr.Unauthorized() {
			s.Logout(ctx)
		}
		return err
	}

	var netErr *externalApi.NetworkError
	if errors.As(err, &netErr) {
		s.ui.ShowError(networkMsg)
		return err
	}

	s.ui.ShowError(remoteFallback)
	return err
}
