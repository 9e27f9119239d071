package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/workload-service/internal/auth"
	"github.com/spec-kit/workload-service/internal/domain"
	"github.com/spec-kit/workload-service/internal/events"
	"github.com/spec-kit/workload-service/internal/persistence"
	apperrors "github.com/spec-kit/workload-service/pkg/util"
)

// ViewState enumerates the tab-scoped workflow states of a module.
type ViewState string

const (
	StateList   ViewState = "list"
	StateForm   ViewState = "form"
	StateDetail ViewState = "detail"
)

// Descriptor carries the kind-specific pieces of an entity module: seed data,
// identifier derivation rules, filterable fields and export shape.
type Descriptor[R domain.Record] struct {
	Kind       domain.Kind
	Label      string
	StorageKey string
	CodePrefix string
	CodeWidth  int

	Seed         func() []R
	WithIdentity func(record R, id int, code string) R

	EqualityFields map[string]func(R) string
	SearchFields   []func(R) string

	// Identity extracts the owner identity of a record; nil for kinds
	// without per-record ownership.
	Identity func(R) string
	// ApplyImage merges uploaded image data into a record; nil disables
	// uploads for the kind.
	ApplyImage func(record R, image string) R

	ExportColumns []string
	ExportRow     func(R) []string
	Summary       func([]R) map[string]int
}

// ModuleDependencies bundles shared collaborators for module construction.
type ModuleDependencies struct {
	Store           persistence.CollectionStore
	Dispatcher      events.Dispatcher
	Logger          *zap.Logger
	NotificationTTL time.Duration
	UploadMaxBytes  int64
}

// Module is the role-gated management engine for one entity collection. All
// operations run to completion under a single mutex, mirroring the
// event-loop discipline of the original tool; persistence always happens
// before the outcome notification is emitted.
type Module[R domain.Record] struct {
	mu         sync.Mutex
	desc       Descriptor[R]
	store      persistence.CollectionStore
	dispatcher events.Dispatcher
	logger     *zap.Logger
	notifier   *Notifier
	validate   *validator.Validate
	maxUpload  int64

	records        []R
	criteria       Criteria
	state          ViewState
	editID         *int
	detailID       *int
	pendingDeletes map[string]int
	pendingUploads map[string]int
}

// NewModule assembles a module around an injected store.
func NewModule[R domain.Record](desc Descriptor[R], deps ModuleDependencies) *Module[R] {
	if deps.UploadMaxBytes <= 0 {
		deps.UploadMaxBytes = 5 * 1024 * 1024
	}
	return &Module[R]{
		desc:           desc,
		store:          deps.Store,
		dispatcher:     deps.Dispatcher,
		logger:         deps.Logger,
		notifier:       NewNotifier(deps.NotificationTTL, deps.Logger),
		validate:       validator.New(),
		maxUpload:      deps.UploadMaxBytes,
		criteria:       NewCriteria(),
		state:          StateList,
		pendingDeletes: make(map[string]int),
		pendingUploads: make(map[string]int),
	}
}

// Hydrate loads the collection from the store, seeding fixed sample data when
// the key is absent or its content is unreadable. Seeded data is persisted
// immediately.
func (m *Module[R]) Hydrate(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	payload, found, err := m.store.Load(ctx, m.desc.StorageKey)
	if err != nil {
		return apperrors.MapError(err)
	}

	if found {
		var records []R
		if err := json.Unmarshal(payload, &records); err == nil {
			m.records = records
			return nil
		}
		// Malformed content degrades to absent and triggers a reseed.
		readErr := apperrors.NewStorageReadError(m.desc.StorageKey, err)
		m.logger.Warn("stored collection unreadable, reseeding",
			zap.String("key", m.desc.StorageKey), zap.Error(readErr))
	}

	seeded := m.desc.Seed()
	if err := m.persist(ctx, seeded); err != nil {
		return err
	}
	m.records = seeded
	return nil
}

// List returns a copy of the full collection.
func (m *Module[R]) List() []R {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]R(nil), m.records...)
}

// Visible returns the filtered subset for the current criteria.
func (m *Module[R]) Visible() []R {
	m.mu.Lock()
	defer m.mu.Unlock()
	return applyCriteria(m.records, m.criteria, m.desc.EqualityFields, m.desc.SearchFields)
}

// SetFilter updates one equality predicate; the sentinel "All" (or empty)
// disables it.
func (m *Module[R]) SetFilter(field, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if value == "" || value == FilterAll {
		delete(m.criteria.Equality, field)
		return
	}
	m.criteria.Equality[field] = value
}

// SetQuery updates the free-text predicate.
func (m *Module[R]) SetQuery(query string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.criteria.Query = query
}

// Criteria returns a copy of the active filter state.
func (m *Module[R]) Criteria() Criteria {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.criteria.clone()
}

// State reports the current workflow state.
func (m *Module[R]) State() ViewState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// BeginCreate opens the create form. Administrator only.
func (m *Module[R]) BeginCreate(actor auth.Actor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := auth.Authorize(actor.Role, auth.ActionCreate); err != nil {
		m.notifier.Show(domain.NotificationError, err.Error())
		return err
	}
	m.state = StateForm
	m.editID = nil
	return nil
}

// BeginEdit opens the edit form for a record. Administrator only.
func (m *Module[R]) BeginEdit(actor auth.Actor, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := auth.Authorize(actor.Role, auth.ActionUpdate); err != nil {
		m.notifier.Show(domain.NotificationError, err.Error())
		return err
	}
	if m.indexOf(id) < 0 {
		return apperrors.NewNotFound(m.desc.Label, map[string]any{"id": id})
	}
	m.state = StateForm
	m.editID = &id
	return nil
}

// View opens the detail view for a record. Any role.
func (m *Module[R]) View(id int) (R, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var zero R
	idx := m.indexOf(id)
	if idx < 0 {
		return zero, apperrors.NewNotFound(m.desc.Label, map[string]any{"id": id})
	}
	m.detailID = &id
	m.state = StateDetail
	return m.records[idx], nil
}

// Detail returns the record currently open in the detail view. The lookup is
// live: edits and uploads are visible without re-navigating.
func (m *Module[R]) Detail() (R, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var zero R
	if m.detailID == nil {
		return zero, false
	}
	idx := m.indexOf(*m.detailID)
	if idx < 0 {
		return zero, false
	}
	return m.records[idx], true
}

// Cancel abandons the form and returns to the list.
func (m *Module[R]) Cancel() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = StateList
	m.editID = nil
}

// Create validates and appends a new record, assigning both identifiers.
// A secondary id already present on the draft is honored.
func (m *Module[R]) Create(ctx context.Context, actor auth.Actor, draft R) (R, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero R
	if err := auth.Authorize(actor.Role, auth.ActionCreate); err != nil {
		m.notifier.Show(domain.NotificationError, err.Error())
		return zero, err
	}
	if err := m.validateDraft(draft); err != nil {
		m.notifier.Show(domain.NotificationError, err.Error())
		return zero, err
	}

	id := NextID(m.records)
	code := draft.Code()
	if code == "" {
		code = NextCode(m.records, m.desc.CodePrefix, m.desc.CodeWidth)
	}
	record := m.desc.WithIdentity(draft, id, code)

	next := append(append([]R(nil), m.records...), record)
	if err := m.persist(ctx, next); err != nil {
		m.notifier.Show(domain.NotificationError, err.Error())
		return zero, err
	}
	m.records = next
	m.invalidateDeleteTokens()
	m.state = StateList
	m.editID = nil

	m.publish(ctx, actor, events.EventRecordCreated, id, events.RecordCreatedPayload{Code: code})
	m.notifier.Show(domain.NotificationSuccess, fmt.Sprintf("%s added successfully", m.desc.Label))
	return record, nil
}

// Update replaces the record with matching id in place, preserving order and
// both identifiers. Administrator only.
func (m *Module[R]) Update(ctx context.Context, actor auth.Actor, id int, draft R) (R, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero R
	if err := auth.Authorize(actor.Role, auth.ActionUpdate); err != nil {
		m.notifier.Show(domain.NotificationError, err.Error())
		return zero, err
	}
	idx := m.indexOf(id)
	if idx < 0 {
		return zero, apperrors.NewNotFound(m.desc.Label, map[string]any{"id": id})
	}
	if err := m.validateDraft(draft); err != nil {
		m.notifier.Show(domain.NotificationError, err.Error())
		return zero, err
	}

	existing := m.records[idx]
	record := m.desc.WithIdentity(draft, existing.RecordID(), existing.Code())

	next := append([]R(nil), m.records...)
	next[idx] = record
	if err := m.persist(ctx, next); err != nil {
		m.notifier.Show(domain.NotificationError, err.Error())
		return zero, err
	}
	m.records = next
	m.invalidateDeleteTokens()
	m.state = StateList
	m.editID = nil

	m.publish(ctx, actor, events.EventRecordUpdated, id, events.RecordUpdatedPayload{Code: record.Code()})
	m.notifier.Show(domain.NotificationSuccess, fmt.Sprintf("%s updated successfully", m.desc.Label))
	return record, nil
}

// RequestDelete starts the two-step delete protocol and returns a
// single-use confirmation token. Administrator only.
func (m *Module[R]) RequestDelete(actor auth.Actor, id int) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := auth.Authorize(actor.Role, auth.ActionDelete); err != nil {
		m.notifier.Show(domain.NotificationError, err.Error())
		return "", err
	}
	if m.indexOf(id) < 0 {
		return "", apperrors.NewNotFound(m.desc.Label, map[string]any{"id": id})
	}

	token := uuid.NewString()
	m.pendingDeletes[token] = id
	return token, nil
}

// ConfirmDelete completes a previously requested delete. Tokens are
// invalidated whenever the collection mutates underneath them.
func (m *Module[R]) ConfirmDelete(ctx context.Context, actor auth.Actor, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := auth.Authorize(actor.Role, auth.ActionDelete); err != nil {
		m.notifier.Show(domain.NotificationError, err.Error())
		return err
	}
	id, ok := m.pendingDeletes[token]
	if !ok {
		return apperrors.NewConflict("delete confirmation expired", nil)
	}
	idx := m.indexOf(id)
	if idx < 0 {
		delete(m.pendingDeletes, token)
		return apperrors.NewNotFound(m.desc.Label, map[string]any{"id": id})
	}

	removed := m.records[idx]
	next := append(append([]R(nil), m.records[:idx]...), m.records[idx+1:]...)
	if err := m.persist(ctx, next); err != nil {
		m.notifier.Show(domain.NotificationError, err.Error())
		return err
	}
	m.records = next
	m.invalidateDeleteTokens()

	if m.detailID != nil && *m.detailID == id {
		m.detailID = nil
		m.state = StateList
	}

	m.publish(ctx, actor, events.EventRecordDeleted, id, events.RecordDeletedPayload{Code: removed.Code()})
	m.notifier.Show(domain.NotificationDelete, fmt.Sprintf("%s deleted", m.desc.Label))
	return nil
}

// BeginUpload authorizes an image upload and returns an upload ticket. A
// Staff actor may only target their own record (with the first-record
// fallback when no record matches their identity).
func (m *Module[R]) BeginUpload(actor auth.Actor, id int) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.desc.ApplyImage == nil {
		return "", apperrors.NewValidationError(fmt.Sprintf("%s does not support image uploads", m.desc.Label), nil)
	}
	if err := auth.Authorize(actor.Role, auth.ActionUpload); err != nil {
		m.notifier.Show(domain.NotificationError, err.Error())
		return "", err
	}
	idx := m.indexOf(id)
	if idx < 0 {
		return "", apperrors.NewNotFound(m.desc.Label, map[string]any{"id": id})
	}
	if actor.Role != domain.RoleAdministrator && !m.ownsLocked(actor, id) {
		err := apperrors.NewPermissionError("you may only change your own profile image")
		m.notifier.Show(domain.NotificationError, err.Error())
		return "", err
	}

	ticket := uuid.NewString()
	m.pendingUploads[ticket] = id
	return ticket, nil
}

// CompleteUpload validates the uploaded content, merges it into the target
// record and persists. Completions are applied in arrival order; the last
// one wins.
func (m *Module[R]) CompleteUpload(ctx context.Context, actor auth.Actor, ticket string, data []byte, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.pendingUploads[ticket]
	if !ok {
		return apperrors.NewConflict("upload ticket unknown", nil)
	}
	delete(m.pendingUploads, ticket)

	if !strings.HasPrefix(contentType, "image/") {
		err := apperrors.NewUploadError("only image files can be uploaded", map[string]any{"content_type": contentType})
		m.notifier.Show(domain.NotificationError, err.Error())
		return err
	}
	if int64(len(data)) > m.maxUpload {
		err := apperrors.NewUploadError(
			fmt.Sprintf("image exceeds the %d MB limit", m.maxUpload/(1024*1024)),
			map[string]any{"size_bytes": len(data)})
		m.notifier.Show(domain.NotificationError, err.Error())
		return err
	}

	idx := m.indexOf(id)
	if idx < 0 {
		return apperrors.NewNotFound(m.desc.Label, map[string]any{"id": id})
	}

	image := fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(data))
	record := m.desc.ApplyImage(m.records[idx], image)

	next := append([]R(nil), m.records...)
	next[idx] = record
	if err := m.persist(ctx, next); err != nil {
		m.notifier.Show(domain.NotificationError, err.Error())
		return err
	}
	m.records = next

	m.publish(ctx, actor, events.EventImageUploaded, id, events.ImageUploadedPayload{
		Code:        record.Code(),
		ContentType: contentType,
		SizeBytes:   len(data),
	})
	m.notifier.Show(domain.NotificationSuccess, "profile image updated")
	return nil
}

// Notification returns the module's visible notification, if any.
func (m *Module[R]) Notification() (domain.Notification, bool) {
	return m.notifier.Current()
}

// Dismiss manually clears the notification.
func (m *Module[R]) Dismiss() {
	m.notifier.Dismiss()
}

// Close releases the notifier timer.
func (m *Module[R]) Close() {
	m.notifier.Close()
}

// ExportSnapshot hands the export collaborator a complete, self-describing
// view of the currently displayed table.
type ExportSnapshot struct {
	Kind        domain.Kind       `json:"kind"`
	GeneratedAt time.Time         `json:"generatedAt"`
	Filters     map[string]string `json:"filters"`
	Query       string            `json:"query,omitempty"`
	Total       int               `json:"total"`
	Summary     map[string]int    `json:"summary,omitempty"`
	Columns     []string          `json:"columns"`
	Rows        [][]string        `json:"rows"`
}

// Export builds a snapshot of the visible subset under the active criteria.
func (m *Module[R]) Export() ExportSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	visible := applyCriteria(m.records, m.criteria, m.desc.EqualityFields, m.desc.SearchFields)
	rows := make([][]string, 0, len(visible))
	for _, record := range visible {
		rows = append(rows, m.desc.ExportRow(record))
	}

	snapshot := ExportSnapshot{
		Kind:        m.desc.Kind,
		GeneratedAt: time.Now(),
		Filters:     m.criteria.clone().Equality,
		Query:       m.criteria.Query,
		Total:       len(m.records),
		Columns:     append([]string(nil), m.desc.ExportColumns...),
		Rows:        rows,
	}
	if m.desc.Summary != nil {
		snapshot.Summary = m.desc.Summary(visible)
	}
	return snapshot
}

func (m *Module[R]) indexOf(id int) int {
	for i, record := range m.records {
		if record.RecordID() == id {
			return i
		}
	}
	return -1
}

func (m *Module[R]) ownsLocked(actor auth.Actor, id int) bool {
	if m.desc.Identity == nil {
		return false
	}
	ownIdx := auth.OwnIndex(m.records, m.desc.Identity, actor.Identity)
	return ownIdx >= 0 && m.records[ownIdx].RecordID() == id
}

func (m *Module[R]) validateDraft(draft R) error {
	err := m.validate.Struct(draft)
	if err == nil {
		return nil
	}
	details := map[string]any{}
	if fieldErrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range fieldErrs {
			details[fe.Field()] = fe.Tag()
		}
	}
	return apperrors.NewValidationError(fmt.Sprintf("%s is missing required fields", m.desc.Label), details)
}

func (m *Module[R]) persist(ctx context.Context, records []R) error {
	payload, err := json.Marshal(records)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if err := m.store.Save(ctx, m.desc.StorageKey, payload); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// invalidateDeleteTokens drops pending confirmations after any collection
// mutation so a stale confirm cannot delete the wrong record.
func (m *Module[R]) invalidateDeleteTokens() {
	for token := range m.pendingDeletes {
		delete(m.pendingDeletes, token)
	}
}

func (m *Module[R]) publish(ctx context.Context, actor auth.Actor, eventType events.EventType, recordID int, payload any) {
	if m.dispatcher == nil {
		return
	}
	_ = m.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Kind:      m.desc.Kind,
		RecordID:  recordID,
		Actor:     events.Actor{Role: actor.Role, Identity: actor.Identity},
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
