package session

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/go-redis/redis/v8"
)

// FileBackend stores the snapshot in a file, rewritten atomically via a
// temporary file and rename.
type FileBackend struct {
	Path string
}

// NewFileBackend constructs a file backend at path.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{Path: path}
}

func (f *FileBackend) Load() ([]byte, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

func (f *FileBackend) Store(data []byte) error {
	dir := filepath.Dir(f.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), f.Path)
}

// RedisBackend stores the snapshot in a single Redis key.
type RedisBackend struct {
	client  *redis.Client
	key     string
	timeout time.Duration
}

// NewRedisBackend connects a backend to the Redis instance at addr,
// storing the snapshot under key.
func NewRedisBackend(addr, key string) *RedisBackend {
	return &RedisBackend{
		client:  redis.NewClient(&redis.Options{Addr: addr}),
		key:     key,
		timeout: 2 * time.Second,
	}
}

func (r *RedisBackend) Load() ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return data, err
}

func (r *RedisBackend) Store(data []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	return r.client.Set(ctx, r.key, data, 0).Err()
}

// Close releases the Redis connection.
func (r *RedisBackend) Close() error {
	return r.client.Close()
}

// MemoryBackend keeps the snapshot in memory, for tests.
type MemoryBackend struct {
	Data   []byte
	Stores int
}

func (m *MemoryBackend) Load() ([]byte, error) {
	return m.Data, nil
}

func (m *MemoryBackend) Store(data []byte) error {
	m.Data = append([]byte(nil), data...)
	m.Stores++
	return nil
}
