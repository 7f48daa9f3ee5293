package extrolApi

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/KotFed0t/extrol_cli/config"
	"github.com/KotFed0t/extrol_cli/internal/converter/apiConverter"
	"github.com/KotFed0t/extrol_cli/internal/externalApi"
	"github.com/KotFed0t/extrol_cli/internal/model"
	"github.com/KotFed0t/extrol_cli/internal/model/apiModel"
	"github.com/KotFed0t/extrol_cli/utils"
	"github.com/go-resty/resty/v2"
)

// ExtrolApi is the client for the Extrol entries API. The bearer token is
// passed per call so the session owner stays in charge of it.
type ExtrolApi struct {
	client *resty.Client
}

func New(cfg *config.Config) *ExtrolApi {
	client := resty.New().
		SetDebug(cfg.API.Debug).
		SetTimeout(cfg.API.Timeout).
		SetBaseURL(cfg.API.BaseURL).
		SetHeader("Content-Type", "application/json")
	return &ExtrolApi{client: client}
}

func (a *ExtrolApi) Login(ctx context.Context, email, password string) (model.Session, error) {
	return a.auth(ctx, "/api/auth/login", apiModel.AuthRequest{Email: email, Password: password})
}

func (a *ExtrolApi) Signup(ctx context.Context, name, email, password string) (model.Session, error) {
	return a.auth(ctx, "/api/auth/signup", apiModel.AuthRequest{Name: name, Email: email, Password: password})
}

func (a *ExtrolApi) auth(ctx context.Context, url string, req apiModel.AuthRequest) (model.Session, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "ExtrolApi.auth"

	slog.Debug("auth request start", slog.String("rqID", rqID), slog.String("op", op), slog.String("url", url))

	resp, err := a.client.R().
		SetContext(ctx).
		SetBody(req).
		Post(url)
	if err != nil {
		slog.Error("error while dialing extrol api", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Session{}, &externalApi.NetworkError{Err: err}
	}

	if resp.IsError() {
		return model.Session{}, remoteError(resp)
	}

	authResp := apiModel.AuthResponse{}
	if err := json.Unmarshal(resp.Body(), &authResp); err != nil {
		slog.Error("can't unmarshall auth response", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Session{}, err
	}

	slog.Debug("auth request complete", slog.String("rqID", rqID), slog.String("op", op))

	return model.Session{Token: authResp.Token, User: authResp.User}, nil
}

func (a *ExtrolApi) ListEntries(ctx context.Context, token string) ([]model.Entry, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "ExtrolApi.ListEntries"

	slog.Debug("ListEntries request start", slog.String("rqID", rqID), slog.String("op", op))

	resp, err := a.request(ctx, token).Get("/api/entries")
	if err != nil {
		slog.Error("error while dialing extrol api", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, &externalApi.NetworkError{Err: err}
	}

	if resp.IsError() {
		return nil, remoteError(resp)
	}

	var entriesResp []apiModel.EntryResponse
	if err := json.Unmarshal(resp.Body(), &entriesResp); err != nil {
		slog.Error("can't unmarshall entries response", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, err
	}

	slog.Debug("ListEntries request complete", slog.String("rqID", rqID), slog.String("op", op), slog.Int("count", len(entriesResp)))

	return apiConverter.ToEntries(entriesResp), nil
}

func (a *ExtrolApi) CreateEntry(ctx context.Context, token string, draft model.EntryDraft) (model.Entry, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "ExtrolApi.CreateEntry"

	slog.Debug("CreateEntry request start", slog.String("rqID", rqID), slog.String("op", op))

	resp, err := a.request(ctx, token).
		SetBody(apiConverter.ToEntryRequest(draft)).
		Post("/api/entries")
	if err != nil {
		slog.Error("error while dialing extrol api", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Entry{}, &externalApi.NetworkError{Err: err}
	}

	if resp.IsError() {
		return model.Entry{}, remoteError(resp)
	}

	entryResp := apiModel.EntryResponse{}
	if err := json.Unmarshal(resp.Body(), &entryResp); err != nil {
		slog.Error("can't unmarshall entry response", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Entry{}, err
	}

	slog.Debug("CreateEntry request complete", slog.String("rqID", rqID), slog.String("op", op))

	return apiConverter.ToEntry(entryResp), nil
}

func (a *ExtrolApi) UpdateEntry(ctx context.Context, token, id string, draft model.EntryDraft) (model.Entry, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "ExtrolApi.UpdateEntry"

	slog.Debug("UpdateEntry request start", slog.String("rqID", rqID), slog.String("op", op), slog.String("entryID", id))

	resp, err := a.request(ctx, token).
		SetBody(apiConverter.ToEntryRequest(draft)).
		SetPathParam("id", id).
		Put("/api/entries/{id}")
	if err != nil {
		slog.Error("error while dialing extrol api", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Entry{}, &externalApi.NetworkError{Err: err}
	}

	if resp.IsError() {
		return model.Entry{}, remoteError(resp)
	}

	entryResp := apiModel.EntryResponse{}
	if err := json.Unmarshal(resp.Body(), &entryResp); err != nil {
		slog.Error("can't unmarshall entry response", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Entry{}, err
	}

	slog.Debug("UpdateEntry request complete", slog.String("rqID", rqID), slog.String("op", op), slog.String("entryID", id))

	return apiConverter.ToEntry(entryResp), nil
}

func (a *ExtrolApi) DeleteEntry(ctx context.Context, token, id string) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "ExtrolApi.DeleteEntry"

	slog.Debug("DeleteEntry request start", slog.String("rqID", rqID), slog.String("op", op), slog.String("entryID", id))

	resp, err := a.request(ctx, token).
		SetPathParam("id", id).
		Delete("/api/entries/{id}")
	if err != nil {
		slog.Error("error while dialing extrol api", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return &externalApi.NetworkError{Err: err}
	}

	if resp.IsError() {
		return remoteError(resp)
	}

	slog.Debug("DeleteEntry request complete", slog.String("rqID", rqID), slog.String("op", op), slog.String("entryID", id))

	return nil
}

func (a *ExtrolApi) request(ctx context.Context, token string) *resty.Request {
	req := a.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json")
	if token != "" {
		req.SetAuthToken(token)
	}
	return req
}

// remoteError maps a non-2xx response to a RemoteError, pulling the
// user-facing message out of the { "error": "..." } body when present.
func remoteError(resp *resty.Response) error {
	errResp := apiModel.ErrorResponse{}
	_ = json.Unmarshal(resp.Body(), &errResp)
	return &externalApi.RemoteError{
		StatusCode: resp.StatusCode(),
		Message:    errResp.Error,
	}
}
