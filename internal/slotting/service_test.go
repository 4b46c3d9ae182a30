package slotting

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pharmled/pharmledgo/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// sqlRecorder captures every statement the session executes
type sqlRecorder struct {
	mu   sync.Mutex
	sqls []string
}

func (r *sqlRecorder) LogMode(logger.LogLevel) logger.Interface      { return r }
func (r *sqlRecorder) Info(context.Context, string, ...interface{})  {}
func (r *sqlRecorder) Warn(context.Context, string, ...interface{})  {}
func (r *sqlRecorder) Error(context.Context, string, ...interface{}) {}
func (r *sqlRecorder) Trace(_ context.Context, _ time.Time, fc func() (string, int64), _ error) {
	sql, _ := fc()
	r.mu.Lock()
	r.sqls = append(r.sqls, sql)
	r.mu.Unlock()
}

// bareRow matches the row column referenced without identifier quoting.
// ROW is a reserved word in PostgreSQL, so any raw condition that leaves it
// unquoted parses on SQLite but fails on the production database.
var bareRow = regexp.MustCompile("(^|[^\"`\\w])row([^\"`\\w]|$)")

func TestRawConditionsQuoteRowColumn(t *testing.T) {
	s := newTestService(t)
	mustShelf(t, s, "F", 2, 3)

	rec := &sqlRecorder{}
	traced := NewService(s.db.Session(&gorm.Session{Logger: rec}))

	// Walk every code path with a raw condition on the row column.
	if _, err := traced.SlotAt("F", "A", 1); err != nil {
		t.Fatalf("slot at: %v", err)
	}
	if _, err := traced.maxPopulatedCol("F", "A"); err != nil {
		t.Fatalf("max populated col: %v", err)
	}
	slot, _ := traced.SlotAt("F", "A", 1)
	if _, err := traced.partnerSlotID(slot.ID); err != nil {
		t.Fatalf("partner lookup: %v", err)
	}
	if _, err := traced.referencedByOthers(slot.ID, 0); err != nil {
		t.Fatalf("reference check: %v", err)
	}
	bounds := &Bounds{Shelf: "F", StartRow: "A", StartCol: 1, EndRow: "B", EndCol: 3}
	if _, err := traced.FindInSection(bounds, models.BasketSmall); err != nil {
		t.Fatalf("section scan: %v", err)
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.sqls) == 0 {
		t.Fatal("no statements captured")
	}
	for _, sql := range rec.sqls {
		lower := strings.ToLower(sql)
		if !strings.Contains(lower, "row") {
			continue
		}
		if bareRow.MatchString(lower) {
			t.Errorf("statement references row unquoted: %s", sql)
		}
	}
}
