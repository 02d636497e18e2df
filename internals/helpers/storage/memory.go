package storage

import (
	"context"
	"fmt"
	"mime/multipart"
	"sync"
	"time"
)

// MemoryDisk menyimpan URL di memori saja (STORAGE_DRIVER=memory, dipakai juga di test).
type MemoryDisk struct {
	mu      sync.Mutex
	Files   map[string]struct{}
	Deleted []string
	FailOn  map[string]error
}

func NewMemoryDisk() *MemoryDisk {
	return &MemoryDisk{Files: map[string]struct{}{}, FailOn: map[string]error{}}
}

func (d *MemoryDisk) Put(ctx context.Context, dir string, fh *multipart.FileHeader) (string, error) {
	if err := ValidateImage(fh); err != nil {
		return "", err
	}
	u := "/mem/" + objectKey("", dir, time.Now())
	d.mu.Lock()
	d.Files[u] = struct{}{}
	d.mu.Unlock()
	return u, nil
}

func (d *MemoryDisk) Delete(ctx context.Context, publicURL string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err, ok := d.FailOn[publicURL]; ok {
		return err
	}
	if _, ok := d.Files[publicURL]; !ok {
		return fmt.Errorf("file tidak ada: %s", publicURL)
	}
	delete(d.Files, publicURL)
	d.Deleted = append(d.Deleted, publicURL)
	return nil
}

// Add mendaftarkan url yang sudah ada (seed/test).
func (d *MemoryDisk) Add(urls ...string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, u := range urls {
		d.Files[u] = struct{}{}
	}
}

func (d *MemoryDisk) DeletedURLs() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.Deleted...)
}
