package projection

import (
	"testing"

	"github.com/KotFed0t/extrol_cli/internal/model"
	"github.com/shopspring/decimal"
)

func entry(id, date string, price float64, note string) model.Entry {
	return model.Entry{ID: id, Date: date, Price: decimal.NewFromFloat(price), Note: note}
}

func ids(entries []model.Entry) []string {
	res := make([]string, 0, len(entries))
	for _, e := range entries {
		res = append(res, e.ID)
	}
	return res
}

func equalIDs(a []string, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFilter(t *testing.T) {
	entries := []model.Entry{
		entry("1", "2024-01-05", 10, "Gas refill"),
		entry("2", "2024-02-10", 20, "Oil change"),
		entry("3", "2024-03-15", 30, ""),
	}

	cases := []struct {
		search string
		want   []string
	}{
		{"", []string{"1", "2", "3"}},
		{"gas", []string{"1"}},
		{"GAS", []string{"1"}},
		{"change", []string{"2"}},
		{"2024-03", []string{"3"}},
		{"-02-", []string{"2"}},
		{"nothing matches", nil},
		{"  gas  ", []string{"1"}}, // surrounding whitespace trimmed
	}

	for i, tc := range cases {
		got := Filter(entries, tc.search)
		if len(got) != len(tc.want) {
			t.Fatalf("case %d (%q): got %v, want %v", i, tc.search, ids(got), tc.want)
		}
		if !equalIDs(ids(got), tc.want) {
			t.Fatalf("case %d (%q): got %v, want %v", i, tc.search, ids(got), tc.want)
		}
	}
}

func TestFilterIsSubset(t *testing.T) {
	entries := []model.Entry{
		entry("1", "2024-01-05", 10, "Gas refill"),
		entry("2", "2024-02-10", 20, "Oil change"),
	}
	got := Filter(entries, "a")
	byID := map[string]model.Entry{}
	for _, e := range entries {
		byID[e.ID] = e
	}
	for _, e := range got {
		if _, ok := byID[e.ID]; !ok {
			t.Fatalf("filtered entry %q not in input", e.ID)
		}
	}
}

func TestSort(t *testing.T) {
	entries := []model.Entry{
		entry("a", "2024-02-01", 5, ""),
		entry("b", "2024-01-01", 20, ""),
		entry("c", "2024-03-01", 10, ""),
	}

	cases := []struct {
		key  model.SortKey
		want []string
	}{
		{model.SortDateDesc, []string{"c", "a", "b"}},
		{model.SortDateAsc, []string{"b", "a", "c"}},
		{model.SortPriceDesc, []string{"b", "c", "a"}},
		{model.SortPriceAsc, []string{"a", "c", "b"}},
		{model.SortKey("bogus"), []string{"a", "b", "c"}}, // unknown key keeps order
	}

	for i, tc := range cases {
		got := ids(Sort(entries, tc.key))
		if !equalIDs(got, tc.want) {
			t.Fatalf("case %d (%s): got %v, want %v", i, tc.key, got, tc.want)
		}
	}

	// input order must survive sorting
	if !equalIDs(ids(entries), []string{"a", "b", "c"}) {
		t.Fatalf("input mutated: %v", ids(entries))
	}
}

func TestSortKeysAreInverses(t *testing.T) {
	entries := []model.Entry{
		entry("a", "2024-02-01", 5, ""),
		entry("b", "2024-01-01", 20, ""),
		entry("c", "2024-03-01", 10, ""),
	}

	pairs := [][2]model.SortKey{
		{model.SortDateDesc, model.SortDateAsc},
		{model.SortPriceDesc, model.SortPriceAsc},
	}

	for _, p := range pairs {
		desc := ids(Sort(entries, p[0]))
		asc := ids(Sort(entries, p[1]))
		for i := range desc {
			if desc[i] != asc[len(asc)-1-i] {
				t.Fatalf("%s and %s are not inverses: %v vs %v", p[0], p[1], desc, asc)
			}
		}
	}
}

func TestStats(t *testing.T) {
	entries := []model.Entry{
		entry("1", "2024-01-01", 10, ""),
		entry("2", "2024-02-01", 20, ""),
	}

	stats := Stats(entries)

	if stats.Count != 2 {
		t.Fatalf("count: got %d, want 2", stats.Count)
	}
	if !stats.Total.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("total: got %s, want 30", stats.Total)
	}
	if !stats.Average.Equal(decimal.NewFromInt(15)) {
		t.Fatalf("average: got %s, want 15", stats.Average)
	}
	if stats.LastRefillDate != "2024-02-01" {
		t.Fatalf("lastRefillDate: got %q, want 2024-02-01", stats.LastRefillDate)
	}
}

func TestStatsEmpty(t *testing.T) {
	stats := Stats(nil)
	if stats.Count != 0 || !stats.Total.IsZero() || !stats.Average.IsZero() || stats.LastRefillDate != "" {
		t.Fatalf("expected zero stats, got %+v", stats)
	}
}

func TestStatsIgnoreSearch(t *testing.T) {
	entries := []model.Entry{
		entry("1", "2024-01-01", 10, "Gas refill"),
		entry("2", "2024-02-01", 20, "Oil change"),
	}

	list, stats := Project(entries, "xyz", model.SortDateDesc)
	if len(list) != 0 {
		t.Fatalf("expected empty filtered list, got %v", ids(list))
	}

	full := Stats(entries)
	if stats.Count != full.Count || !stats.Total.Equal(full.Total) ||
		!stats.Average.Equal(full.Average) || stats.LastRefillDate != full.LastRefillDate {
		t.Fatalf("stats changed under search: %+v vs %+v", stats, full)
	}
}

func TestProjectScenario(t *testing.T) {
	entries := []model.Entry{
		entry("jan", "2024-01-01", 10, ""),
		entry("feb", "2024-02-01", 20, ""),
	}

	list, stats := Project(entries, "", model.SortDateDesc)

	if !equalIDs(ids(list), []string{"feb", "jan"}) {
		t.Fatalf("order: got %v, want [feb jan]", ids(list))
	}
	if !stats.Total.Equal(decimal.NewFromInt(30)) || !stats.Average.Equal(decimal.NewFromInt(15)) {
		t.Fatalf("stats: got total=%s average=%s", stats.Total, stats.Average)
	}
	if stats.LastRefillDate != "2024-02-01" {
		t.Fatalf("lastRefillDate: got %q", stats.LastRefillDate)
	}
}
