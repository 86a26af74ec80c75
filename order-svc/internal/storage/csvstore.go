package storage

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"homecafe/order-svc/internal/domain"

	"github.com/gofrs/flock"
)

var csvHeader = []string{"Order ID", "Date", "Time", "Customer Name", "Username", "User ID", "Items", "Total", "Status"}

const (
	colOrderID = iota
	colDate
	colTime
	colCustomerName
	colHandle
	colCustomerID
	colItems
	colTotal
	colStatus
)

// CSVOrderStore keeps the order log in a single CSV file.
//
// Appends only ever add bytes at the end of the file. Status changes rewrite
// the whole file into a temporary sibling and rename it over the original,
// so readers always see a complete file. Every write, append or rewrite,
// holds gate and an advisory lock on "<path>.lock". The file lock covers
// other processes on the same log, such as cafectl next to order-svc.
type CSVOrderStore struct {
	path string
	gate sync.Mutex
	lock *flock.Flock
}

func NewCSVOrderStore(path string) *CSVOrderStore {
	return &CSVOrderStore{path: path, lock: flock.New(path + ".lock")}
}

// acquire takes the in-process gate, then the file lock. The returned func
// releases both.
func (s *CSVOrderStore) acquire() (func(), error) {
	s.gate.Lock()
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		s.gate.Unlock()
		return nil, fmt.Errorf("create orders directory: %w", err)
	}
	if err := s.lock.Lock(); err != nil {
		s.gate.Unlock()
		return nil, fmt.Errorf("lock orders file: %w", err)
	}
	return func() {
		if err := s.lock.Unlock(); err != nil {
			log.Printf("Warning: unlock orders file: %v", err)
		}
		s.gate.Unlock()
	}, nil
}

func (s *CSVOrderStore) Path() string {
	return s.path
}

func recordToRow(rec domain.OrderRecord) []string {
	return []string{
		rec.OrderID,
		rec.Date,
		rec.Time,
		rec.CustomerName,
		rec.CustomerHandle,
		strconv.FormatInt(rec.CustomerID, 10),
		rec.ItemsSummary,
		domain.FormatPrice(rec.Total),
		string(rec.Status),
	}
}

func rowToRecord(row []string) (domain.OrderRecord, error) {
	if len(row) < colStatus {
		return domain.OrderRecord{}, fmt.Errorf("row has %d columns", len(row))
	}
	customerID, err := strconv.ParseInt(strings.TrimSpace(row[colCustomerID]), 10, 64)
	if err != nil {
		return domain.OrderRecord{}, fmt.Errorf("customer id %q: %w", row[colCustomerID], err)
	}
	total, err := domain.ParsePrice(row[colTotal])
	if err != nil {
		return domain.OrderRecord{}, err
	}
	status := domain.StatusPending
	if len(row) > colStatus && row[colStatus] != "" {
		status = domain.OrderStatus(row[colStatus])
	}
	return domain.OrderRecord{
		OrderID:        row[colOrderID],
		Date:           row[colDate],
		Time:           row[colTime],
		CustomerName:   row[colCustomerName],
		CustomerHandle: row[colHandle],
		CustomerID:     customerID,
		ItemsSummary:   row[colItems],
		Total:          total,
		Status:         status,
	}, nil
}

func isHeader(row []string) bool {
	return len(row) > 0 && row[0] == csvHeader[0]
}

// Append adds one record at the end of the log, creating the directory,
// the file and the header row on first use.
func (s *CSVOrderStore) Append(ctx context.Context, rec domain.OrderRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	release, err := s.acquire()
	if err != nil {
		return err
	}
	defer release()

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open orders file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat orders file: %w", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if info.Size() == 0 {
		w.Write(csvHeader)
	}
	w.Write(recordToRow(rec))
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("encode order row: %w", err)
	}

	// one write call per row so a concurrent reader never sees half of it
	if _, err := f.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("append order row: %w", err)
	}
	return f.Sync()
}

func (s *CSVOrderStore) readRows() ([][]string, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open orders file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var rows [][]string
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read orders file: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// List returns every record in append order. A missing file is an empty log.
func (s *CSVOrderStore) List(ctx context.Context) ([]domain.OrderRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := s.readRows()
	if err != nil {
		return nil, err
	}

	records := make([]domain.OrderRecord, 0, len(rows))
	for i, row := range rows {
		if i == 0 && isHeader(row) {
			continue
		}
		rec, err := rowToRecord(row)
		if err != nil {
			log.Printf("Warning: skipping order row %d: %v", i+1, err)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// MarkStatus moves the first record with the given id and status `from` to
// status `to`. Ids are compared case-insensitively.
func (s *CSVOrderStore) MarkStatus(ctx context.Context, orderID string, from, to domain.OrderStatus) (domain.OrderRecord, error) {
	if err := ctx.Err(); err != nil {
		return domain.OrderRecord{}, err
	}

	release, err := s.acquire()
	if err != nil {
		return domain.OrderRecord{}, err
	}
	defer release()

	rows, err := s.readRows()
	if err != nil {
		return domain.OrderRecord{}, err
	}

	for i, row := range rows {
		if i == 0 && isHeader(row) {
			continue
		}
		if len(row) < colStatus || !strings.EqualFold(row[colOrderID], orderID) {
			continue
		}
		current := domain.StatusPending
		if len(row) > colStatus && row[colStatus] != "" {
			current = domain.OrderStatus(row[colStatus])
		}
		if current != from {
			continue
		}

		updated := make([]string, len(csvHeader))
		copy(updated, row)
		updated[colStatus] = string(to)

		rec, err := rowToRecord(updated)
		if err != nil {
			return domain.OrderRecord{}, fmt.Errorf("order row %d: %w", i+1, err)
		}

		rows[i] = updated
		if err := s.rewrite(rows); err != nil {
			return domain.OrderRecord{}, err
		}
		return rec, nil
	}

	return domain.OrderRecord{}, domain.ErrOrderNotFound
}

func (s *CSVOrderStore) rewrite(rows [][]string) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".orders-*.csv")
	if err != nil {
		return fmt.Errorf("create temp orders file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	w := csv.NewWriter(tmp)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write temp orders file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp orders file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp orders file: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("chmod temp orders file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace orders file: %w", err)
	}
	committed = true
	return nil
}

// Recent returns the last n records, newest first.
func (s *CSVOrderStore) Recent(ctx context.Context, n int) ([]domain.OrderRecord, error) {
	records, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return newestFirst(records, n), nil
}

func (s *CSVOrderStore) ByDate(ctx context.Context, date string) ([]domain.OrderRecord, error) {
	records, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return filterRecords(records, func(r domain.OrderRecord) bool { return r.Date == date }), nil
}

func (s *CSVOrderStore) ByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.OrderRecord, error) {
	records, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return filterRecords(records, func(r domain.OrderRecord) bool { return r.Status == status }), nil
}

func (s *CSVOrderStore) Exists(ctx context.Context, orderID string) (bool, error) {
	records, err := s.List(ctx)
	if err != nil {
		return false, err
	}
	for _, r := range records {
		if strings.EqualFold(r.OrderID, orderID) {
			return true, nil
		}
	}
	return false, nil
}

func newestFirst(records []domain.OrderRecord, n int) []domain.OrderRecord {
	if n <= 0 || n > len(records) {
		n = len(records)
	}
	out := make([]domain.OrderRecord, 0, n)
	for i := len(records) - 1; i >= len(records)-n; i-- {
		out = append(out, records[i])
	}
	return out
}

func filterRecords(records []domain.OrderRecord, keep func(domain.OrderRecord) bool) []domain.OrderRecord {
	out := make([]domain.OrderRecord, 0, len(records))
	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
