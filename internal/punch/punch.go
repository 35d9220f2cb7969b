package punch

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/emilianohg/punchclock/internal/clock"
	"github.com/emilianohg/punchclock/internal/models"
	"github.com/emilianohg/punchclock/internal/shift"
	"github.com/emilianohg/punchclock/internal/state"
)

// AutoDirection asks the engine to derive in/out from today's valid punches.
const AutoDirection = "auto"

const (
	DefaultDuplicateWindow = time.Minute

	unassignedShift  = "Unassigned"
	manualEntryShift = "Manual entry"
)

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrMissingFields    = errors.New("missing required fields")
	ErrInvalidPunchType = errors.New("punch type must be in or out")
	ErrInvalidDateTime  = errors.New("invalid date or time")
)

// RecordStore persists punch records.
type RecordStore interface {
	Add(record models.PunchRecord) error
}

type Result struct {
	Employee  models.Employee
	Record    models.PunchRecord
	Duplicate bool
	Message   string
}

type Engine struct {
	store  RecordStore
	state  *state.State
	clock  clock.Clock
	window time.Duration
	logger *zap.Logger
	pick   func(n int) int

	// serializes punches so the valid-punch count cannot race
	mu sync.Mutex
}

type Option func(*Engine)

// WithDuplicateWindow overrides the 60s anti double-punch window.
func WithDuplicateWindow(d time.Duration) Option {
	return func(e *Engine) { e.window = d }
}

// WithPicker replaces the random greeting selection.
func WithPicker(pick func(n int) int) Option {
	return func(e *Engine) { e.pick = pick }
}

func NewEngine(store RecordStore, st *state.State, clk clock.Clock, logger *zap.Logger, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		state:  st,
		clock:  clk,
		window: DefaultDuplicateWindow,
		logger: logger,
		pick:   rand.IntN,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RecordPunch handles a card swipe or typed password. override is
// AutoDirection or a literal punch type; shiftID 0 means no shift selected.
func (e *Engine) RecordPunch(raw, override string, shiftID int64) (*Result, error) {
	credential := strings.TrimSpace(raw)
	if credential == "" {
		return nil, ErrMissingFields
	}

	employee, ok := e.state.FindByCredential(credential)
	if !ok {
		return nil, fmt.Errorf("%w: no card or password %q", ErrEmployeeNotFound, credential)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	records := e.state.Records()
	shiftName := shift.Label(shift.FindByID(e.state.Shifts(), shiftID), unassignedShift)

	punchType, err := e.direction(override, employee.ID, records, now)
	if err != nil {
		return nil, err
	}

	if last, found := lastValidPunch(records, employee.ID); found && now.Sub(last.Timestamp) < e.window {
		record := models.PunchRecord{
			EmployeeID: employee.ID,
			Timestamp:  now,
			Type:       last.Type,
			Shift:      shiftName,
			Status:     models.StatusDuplicate,
			Source:     models.SourceAuto,
		}
		if err := e.store.Add(record); err != nil {
			return nil, fmt.Errorf("failed to save punch record: %w", err)
		}
		e.state.PrependRecord(record)

		e.logger.Info("duplicate punch",
			zap.String("employee", employee.ID),
			zap.String("type", string(record.Type)),
		)
		return &Result{
			Employee:  employee,
			Record:    record,
			Duplicate: true,
			Message: fmt.Sprintf("%s, you already punched %s within the last minute. Recorded as a duplicate.",
				employee.Name, directionText(last.Type)),
		}, nil
	}

	record := models.PunchRecord{
		EmployeeID: employee.ID,
		Timestamp:  now,
		Type:       punchType,
		Shift:      shiftName,
		Status:     models.StatusNormal,
		Source:     models.SourceAuto,
	}
	if err := e.store.Add(record); err != nil {
		return nil, fmt.Errorf("failed to save punch record: %w", err)
	}
	e.state.PrependRecord(record)

	e.logger.Info("punch recorded",
		zap.String("employee", employee.ID),
		zap.String("type", string(record.Type)),
		zap.String("shift", shiftName),
	)
	return &Result{
		Employee: employee,
		Record:   record,
		Message:  e.greeting(employee, punchType, now),
	}, nil
}

// RecordManualPunch back-fills a punch. The duplicate window does not apply.
func (e *Engine) RecordManualPunch(identifier, date, timeOfDay, punchType string, shiftID int64) (*Result, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || date == "" || timeOfDay == "" {
		return nil, ErrMissingFields
	}

	typ := models.PunchType(punchType)
	if typ != models.PunchIn && typ != models.PunchOut {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPunchType, punchType)
	}

	ts, err := parseLocal(date, timeOfDay)
	if err != nil {
		return nil, err
	}

	employee, ok := e.state.FindByIdentifier(identifier)
	if !ok {
		return nil, fmt.Errorf("%w: no id, card or password %q", ErrEmployeeNotFound, identifier)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	record := models.PunchRecord{
		EmployeeID: employee.ID,
		Timestamp:  ts,
		Type:       typ,
		Shift:      shift.Label(shift.FindByID(e.state.Shifts(), shiftID), manualEntryShift),
		Status:     models.StatusNormal,
		Source:     models.SourceManual,
	}
	if err := e.store.Add(record); err != nil {
		return nil, fmt.Errorf("failed to save manual punch: %w", err)
	}
	e.state.InsertRecord(record)

	e.logger.Info("manual punch recorded",
		zap.String("employee", employee.ID),
		zap.Time("timestamp", ts),
		zap.String("type", string(typ)),
	)
	return &Result{
		Employee: employee,
		Record:   record,
		Message:  fmt.Sprintf("Manual entry for %s was added.", employee.Name),
	}, nil
}

func (e *Engine) direction(override, employeeID string, records []models.PunchRecord, now time.Time) (models.PunchType, error) {
	if override == "" || override == AutoDirection {
		if ValidPunchesToday(records, employeeID, now)%2 == 0 {
			return models.PunchIn, nil
		}
		return models.PunchOut, nil
	}
	typ := models.PunchType(override)
	if typ != models.PunchIn && typ != models.PunchOut {
		return "", fmt.Errorf("%w: %q", ErrInvalidPunchType, override)
	}
	return typ, nil
}

// ValidPunchesToday counts the employee's non-duplicate punches since local
// midnight.
func ValidPunchesToday(records []models.PunchRecord, employeeID string, now time.Time) int {
	midnight := clock.StartOfDay(now)
	n := 0
	for _, r := range records {
		if r.EmployeeID == employeeID && r.Valid() && !r.Timestamp.Before(midnight) {
			n++
		}
	}
	return n
}

func lastValidPunch(records []models.PunchRecord, employeeID string) (models.PunchRecord, bool) {
	var last models.PunchRecord
	found := false
	for _, r := range records {
		if r.EmployeeID != employeeID || !r.Valid() {
			continue
		}
		if !found || r.Timestamp.After(last.Timestamp) {
			last = r
			found = true
		}
	}
	return last, found
}

func (e *Engine) greeting(employee models.Employee, typ models.PunchType, now time.Time) string {
	var greeting string
	if options := e.state.Greetings()[typ]; len(options) > 0 {
		greeting = options[e.pick(len(options))]
	}

	prefix, suffix := "", ""
	if effect := ActiveEffect(e.state.SpecialEffects(), now); effect != nil {
		prefix, suffix = effect.Prefix, effect.Suffix
	}

	parts := []string{
		prefix,
		fmt.Sprintf("%s, punched %s successfully!", employee.Name, directionText(typ)),
		greeting,
		suffix,
	}
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

// ActiveEffect returns the first enabled special effect whose date window
// contains now's date.
func ActiveEffect(effects []models.SpecialEffect, now time.Time) *models.SpecialEffect {
	today := clock.ISODate(now)
	for i := range effects {
		if effects[i].Enabled && clock.InDateWindow(today, effects[i].StartDate, effects[i].EndDate) {
			return &effects[i]
		}
	}
	return nil
}

func directionText(t models.PunchType) string {
	if t == models.PunchIn {
		return "in"
	}
	return "out"
}

func parseLocal(date, timeOfDay string) (time.Time, error) {
	value := date + " " + timeOfDay
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02 15:04"} {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateTime, value)
}
