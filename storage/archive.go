package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"
	"sort"
	"strings"
	"time"
)

var (
	// ErrInvalidID is returned for report ids that are not a single safe path segment
	ErrInvalidID = errors.New("invalid report id")
	// ErrReportNotFound is returned by LoadReport when nothing is archived under the id
	ErrReportNotFound = errors.New("report not found")

	reportIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,127}$`)
)

// ValidReportID reports whether id can be used as an object name under the prefix
func ValidReportID(id string) bool {
	return reportIDPattern.MatchString(id)
}

// ObjectStore is what the archiver needs from a blob store; *S3 implements it
type ObjectStore interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Exists(ctx context.Context, key string) (bool, error)
	List(ctx context.Context, prefix string) ([]string, error)
}

// ReportArchiver writes batch reports as JSON under prefix/YYYY/MM/DD/<id>.json
type ReportArchiver struct {
	store  ObjectStore
	prefix string
}

// NewReportArchiver creates an archiver over store. An empty prefix writes at the bucket root.
func NewReportArchiver(store ObjectStore, prefix string) (*ReportArchiver, error) {
	if store == nil {
		return nil, errors.New("object store cannot be nil")
	}
	return &ReportArchiver{store: store, prefix: strings.Trim(prefix, "/")}, nil
}

func (a *ReportArchiver) dayPrefix(t time.Time) string {
	t = t.UTC()
	return path.Join(a.prefix, t.Format("2006"), t.Format("01"), t.Format("02"))
}

// ReportKey returns the object key of the report for id produced at t (UTC).
// Ids must match ValidReportID so the key stays under the prefix.
func (a *ReportArchiver) ReportKey(id string, t time.Time) (string, error) {
	if !ValidReportID(id) {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return path.Join(a.dayPrefix(t), id+".json"), nil
}

// Archive stores report and returns its key
func (a *ReportArchiver) Archive(ctx context.Context, id string, at time.Time, report any) (string, error) {
	key, err := a.ReportKey(id, at)
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("failed to encode report %s: %w", id, err)
	}

	if err := a.store.Put(ctx, key, bytes.NewReader(body), "application/json"); err != nil {
		return "", err
	}
	return key, nil
}

// Load decodes the report stored at key into v
func (a *ReportArchiver) Load(ctx context.Context, key string, v any) error {
	rc, err := a.store.Get(ctx, key)
	if err != nil {
		return err
	}
	defer rc.Close()

	if err := json.NewDecoder(rc).Decode(v); err != nil {
		return fmt.Errorf("failed to decode report %s: %w", key, err)
	}
	return nil
}

// Exists reports whether a report for id produced at t has been archived
func (a *ReportArchiver) Exists(ctx context.Context, id string, t time.Time) (bool, error) {
	key, err := a.ReportKey(id, t)
	if err != nil {
		return false, err
	}
	return a.store.Exists(ctx, key)
}

// LoadReport decodes the report archived for id on day t into v
func (a *ReportArchiver) LoadReport(ctx context.Context, id string, t time.Time, v any) error {
	ok, err := a.Exists(ctx, id, t)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s on %s", ErrReportNotFound, id, t.UTC().Format(time.DateOnly))
	}
	key, _ := a.ReportKey(id, t)
	return a.Load(ctx, key, v)
}

// List returns the ids of the reports archived on day t, sorted
func (a *ReportArchiver) List(ctx context.Context, t time.Time) ([]string, error) {
	dir := a.dayPrefix(t) + "/"
	keys, err := a.store.List(ctx, dir)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(keys))
	for _, key := range keys {
		name := strings.TrimPrefix(key, dir)
		if strings.Contains(name, "/") || !strings.HasSuffix(name, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}
