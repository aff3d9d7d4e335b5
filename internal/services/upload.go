package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shelfcast/shelfcast-backend/internal/pkg/logger"
)

// MaxUploadBytes caps a single relayed upload at 500MB.
const MaxUploadBytes int64 = 500 << 20

// Upload progress is a two-phase signal: the network copy advances 0-95,
// and only the store's persistence confirmation moves it to 100. The
// percentage never decreases.
const transferPhaseCeiling = 95

type UploadSession struct {
	ID        uuid.UUID `json:"id"`
	FileName  string    `json:"fileName"`
	Key       string    `json:"key"`
	Percent   int       `json:"percent"`
	Done      bool      `json:"done"`
	Failed    bool      `json:"failed"`
	Error     string    `json:"error,omitempty"`
	URL       string    `json:"url,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type UploadService interface {
	// Relay streams file to the bucket, tracking progress under a session
	// that callers poll by id.
	Relay(ctx context.Context, fileName string, size int64, file io.Reader) (*UploadSession, error)
	Progress(id uuid.UUID) (*UploadSession, bool)
}

type uploadService struct {
	log    *logger.Logger
	bucket BucketService

	mu       sync.Mutex
	sessions map[uuid.UUID]*UploadSession
}

func NewUploadService(baseLog *logger.Logger, bucket BucketService) UploadService {
	return &uploadService{
		log:      baseLog.With("service", "UploadService"),
		bucket:   bucket,
		sessions: make(map[uuid.UUID]*UploadSession),
	}
}

func (us *uploadService) Relay(ctx context.Context, fileName string, size int64, file io.Reader) (*UploadSession, error) {
	if size > MaxUploadBytes {
		return nil, fmt.Errorf("file exceeds %dMB upload limit", MaxUploadBytes>>20)
	}
	session := &UploadSession{
		ID:        uuid.New(),
		FileName:  fileName,
		Key:       uploadKey(fileName),
		CreatedAt: time.Now(),
	}
	us.mu.Lock()
	us.sessions[session.ID] = session
	us.mu.Unlock()

	onTransferred := func(n int64) {
		pct := transferPhaseCeiling
		if size > 0 {
			pct = int(n * transferPhaseCeiling / size)
			if pct > transferPhaseCeiling {
				pct = transferPhaseCeiling
			}
		}
		us.setPercent(session.ID, pct)
	}

	if err := us.bucket.UploadFile(ctx, session.Key, io.LimitReader(file, MaxUploadBytes+1), onTransferred); err != nil {
		us.fail(session.ID, err)
		return nil, err
	}

	url := us.bucket.GetPublicURL(session.Key)
	us.mu.Lock()
	session.Percent = 100
	session.Done = true
	session.URL = url
	us.mu.Unlock()
	us.log.Info("Upload relayed", "session_id", session.ID, "key", session.Key)
	return session, nil
}

func (us *uploadService) Progress(id uuid.UUID) (*UploadSession, bool) {
	us.mu.Lock()
	defer us.mu.Unlock()
	session, ok := us.sessions[id]
	if !ok {
		return nil, false
	}
	copied := *session
	return &copied, true
}

func (us *uploadService) setPercent(id uuid.UUID, pct int) {
	us.mu.Lock()
	defer us.mu.Unlock()
	if session, ok := us.sessions[id]; ok && pct > session.Percent && pct <= transferPhaseCeiling {
		session.Percent = pct
	}
}

func (us *uploadService) fail(id uuid.UUID, err error) {
	us.mu.Lock()
	defer us.mu.Unlock()
	if session, ok := us.sessions[id]; ok {
		session.Failed = true
		session.Error = err.Error()
	}
}

func uploadKey(fileName string) string {
	ext := path.Ext(fileName)
	base := strings.TrimSuffix(path.Base(fileName), ext)
	if base == "" {
		base = "upload"
	}
	return fmt.Sprintf("uploads/%s/%s%s", time.Now().Format("2006/01/02"), base+"-"+uuid.NewString()[:8], ext)
}
