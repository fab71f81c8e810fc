package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"robohub/hub-api/model"
	"robohub/hub-api/validators"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
)

type FileStatus string

const (
	StatusPending   FileStatus = "pending"
	StatusUploading FileStatus = "uploading"
	StatusCompleted FileStatus = "completed"
	StatusError     FileStatus = "error"
)

var ErrNotAuthenticated = errors.New("not authenticated")

// PartialUploadError is returned when at least one file of a session
// ended in error. No model record is created in that case, a record
// must never point at a folder with holes in it
type PartialUploadError struct {
	Failed []string
}

func (e *PartialUploadError) Error() string {
	return fmt.Sprintf("%d file(s) failed to upload: %s", len(e.Failed), strings.Join(e.Failed, ", "))
}

// ObjectStore is the slice of S3 the upload flow depends on
type ObjectStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
}

// RecordStore registers the finished model in the catalog
type RecordStore interface {
	CreateModel(ctx context.Context, m *model.Model) error
}

// UploadFile is one file queued inside a session. Only the coordinator
// mutates Progress/Status/ErrMsg once Submit has started
type UploadFile struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	RelPath     string     `json:"rel_path"` // Preserves folder structure when a directory was picked
	ContentType string     `json:"-"`
	Size        int64      `json:"size"`
	Body        io.Reader  `json:"-"`
	Progress    int        `json:"progress"` // 0-100
	Status      FileStatus `json:"status"`
	ErrMsg      string     `json:"error,omitempty"`
}

// Path is the file's location relative to the session folder
func (f *UploadFile) Path() string {
	if f.RelPath != "" {
		return f.RelPath
	}
	return f.Name
}

func (f *UploadFile) key(prefix string) string {
	return prefix + "/" + f.Path()
}

// UploadSession aggregates the metadata and files of one upload attempt
type UploadSession struct {
	OwnerID     string
	Name        string
	Description string
	Tags        []string
	License     string

	prefix string
	files  []*UploadFile
}

func NewUploadSession(ownerID string) *UploadSession {
	return &UploadSession{OwnerID: ownerID}
}

func (s *UploadSession) AddFile(name, relPath, contentType string, size int64, body io.Reader) (*UploadFile, error) {
	id, err := gonanoid.New(12)
	if err != nil {
		return nil, err
	}

	f := &UploadFile{
		ID:          id,
		Name:        name,
		RelPath:     relPath,
		ContentType: contentType,
		Size:        size,
		Body:        body,
		Status:      StatusPending,
	}

	s.files = append(s.files, f)
	return f, nil
}

// RemoveFile drops a queued file. Files that already started uploading,
// finished or failed stay put, the call is a no-op for them
func (s *UploadSession) RemoveFile(id string) bool {
	for i, f := range s.files {
		if f.ID == id && f.Status == StatusPending {
			s.files = append(s.files[:i], s.files[i+1:]...)
			return true
		}
	}
	return false
}

func (s *UploadSession) Files() []*UploadFile {
	return s.files
}

// FolderPath is the object-store prefix of the session. Empty until
// Submit fixes it
func (s *UploadSession) FolderPath() string {
	return s.prefix
}

type progressEvent struct {
	fileID   string
	progress int
	status   FileStatus
	err      error
}

// Coordinator drives upload sessions to a terminal state. Now is
// injectable so tests get deterministic folder prefixes
type Coordinator struct {
	Store   ObjectStore
	Records RecordStore
	Now     func() time.Time
}

func NewCoordinator(store ObjectStore, records RecordStore) *Coordinator {
	return &Coordinator{Store: store, Records: records, Now: time.Now}
}

// Submit validates the session, uploads every file concurrently under a
// single shared prefix, waits until each one is terminal and only then
// registers the model record. Any failed file fails the whole session
// and nothing is inserted
func (c *Coordinator) Submit(ctx context.Context, s *UploadSession) (*model.Model, error) {
	if s.OwnerID == "" {
		return nil, ErrNotAuthenticated
	}

	if err := validators.NameValidator(s.Name); err != nil {
		return nil, err
	}

	if len(s.files) == 0 {
		return nil, validators.ErrNoFiles
	}

	if !model.ValidLicense(s.License) {
		s.License = "MIT"
	}

	now := c.Now
	if now == nil {
		now = time.Now
	}

	// Fixed once per session, every file lands under it
	s.prefix = fmt.Sprintf("%s/%s-%d", s.OwnerID, s.Name, now().UnixMilli())

	events := make(chan progressEvent)
	for _, f := range s.files {
		go c.uploadFile(ctx, f, s.prefix, events)
	}

	// Single-writer fold: upload goroutines only emit, session state is
	// mutated here and nowhere else
	byID := make(map[string]*UploadFile, len(s.files))
	for _, f := range s.files {
		byID[f.ID] = f
	}

	for remaining := len(s.files); remaining > 0; {
		ev := <-events

		f := byID[ev.fileID]
		if ev.status != "" {
			f.Status = ev.status
		}
		if ev.progress > f.Progress {
			f.Progress = ev.progress
		}
		if ev.err != nil {
			f.ErrMsg = ev.err.Error()
		}

		if ev.status == StatusCompleted || ev.status == StatusError {
			remaining--
		}
	}

	var failed []string
	var size int64
	for _, f := range s.files {
		if f.Status == StatusError {
			failed = append(failed, f.Path())
		}
		size += f.Size
	}

	if len(failed) > 0 {
		zap.L().Warn("Upload session failed partially",
			zap.String("prefix", s.prefix),
			zap.Strings("failed", failed),
		)
		return nil, &PartialUploadError{Failed: failed}
	}

	rec := &model.Model{
		UserID:      s.OwnerID,
		Name:        s.OwnerID + "/" + s.Name,
		Description: s.Description,
		License:     s.License,
		Tags:        model.StringSlice(s.Tags),
		FolderPath:  s.prefix,
		IsPublic:    true,
		Size:        size,
		CreatedAt:   now().UnixMilli(),
		UpdatedAt:   now().UnixMilli(),
	}

	if err := c.Records.CreateModel(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to register model, %w", err)
	}

	return rec, nil
}

// uploadFile pushes one file to the object store and reports progress.
// A failed file must not drag its siblings down, it just reports error
// and lets the session settle the overall outcome
func (c *Coordinator) uploadFile(ctx context.Context, f *UploadFile, prefix string, events chan<- progressEvent) {
	events <- progressEvent{fileID: f.ID, status: StatusUploading}

	body := &progressReader{
		r:     f.Body,
		total: f.Size,
		report: func(pct int) {
			events <- progressEvent{fileID: f.ID, progress: pct, status: StatusUploading}
		},
	}

	if err := c.Store.Put(ctx, f.key(prefix), body, f.Size, f.ContentType); err != nil {
		events <- progressEvent{fileID: f.ID, status: StatusError, err: err}
		return
	}

	events <- progressEvent{fileID: f.ID, progress: 100, status: StatusCompleted}
}

// progressReader reports transfer progress as whole percentages while
// the object store drains the body
type progressReader struct {
	r      io.Reader
	total  int64
	read   int64
	last   int
	report func(pct int)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	p.read += int64(n)

	if p.total > 0 {
		pct := min(int(p.read*100/p.total), 100)
		if pct != p.last {
			p.last = pct
			p.report(pct)
		}
	}

	return n, err
}
