package apiConverter

import (
	"github.com/KotFed0t/extrol_cli/internal/model"
	"github.com/KotFed0t/extrol_cli/internal/model/apiModel"
	"github.com/shopspring/decimal"
)

func ToEntry(resp apiModel.EntryResponse) model.Entry {
	id := resp.ID
	if id == "" {
		id = resp.MongoID
	}
	return model.Entry{
		ID:    id,
		Date:  resp.Date,
		Price: decimal.NewFromFloat(resp.Price),
		Note:  resp.Note,
	}
}

func ToEntries(resp []apiModel.EntryResponse) []model.Entry {
	entries := make([]model.Entry, 0, len(resp))
	for _, r := range resp {
		entries = append(entries, ToEntry(r))
	}
	return entries
}

func ToEntryRequest(draft model.EntryDraft) apiModel.EntryRequest {
	price, _ := draft.Price.Float64()
	return apiModel.EntryRequest{
		Date:  draft.Date,
		Price: price,
		Note:  draft.Note,
	}
}
