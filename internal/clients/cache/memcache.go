package cache

import (
	"strconv"

	"github.com/pkg/errors"

	"go.uber.org/zap"
	"max.ks1230/expense-tracker/internal/logger"

	"github.com/bradfitz/gomemcache/memcache"
)

var defaultBase = 10

// MemcacheClient caches rendered report texts. Aggregations are cheap but
// chatty users re-request the same month view over and over.
//
// Report keys carry a per-user generation counter. Any store mutation
// bumps the counter, which orphans every cached render for that user at
// once: a report of month M depends on more than M's records (the budget
// line, the previous-month comparison), so point-deleting single months
// is not enough.
type MemcacheClient struct {
	client *memcache.Client
}

type config interface {
	Hosts() []string
}

func NewMemcache(config config) (*MemcacheClient, error) {
	logger.Info("memcached hosts", zap.Strings("hosts", config.Hosts()))
	mc := memcache.New(config.Hosts()...)
	return &MemcacheClient{mc}, mc.Ping()
}

func genKey(userID int64) string {
	return strconv.FormatInt(userID, defaultBase) + ":gen"
}

func formatKey(userID int64, gen, viewKey string) string {
	return strconv.FormatInt(userID, defaultBase) + ":" + gen + ":" + viewKey
}

// generation reads the user's current counter. A user who never
// invalidated is at generation 0.
func (mc *MemcacheClient) generation(userID int64) (string, bool) {
	item, err := mc.client.Get(genKey(userID))
	if errors.Is(err, memcache.ErrCacheMiss) {
		return "0", true
	}
	if err != nil {
		logger.Error("cache generation read failed", zap.Int64("userID", userID), zap.Error(err))
		return "", false
	}
	return string(item.Value), true
}

func (mc *MemcacheClient) CacheReport(userID int64, viewKey string, report string) error {
	if mc == nil {
		return nil
	}
	gen, ok := mc.generation(userID)
	if !ok {
		return nil
	}

	logger.Info("cache report", zap.Int64("userID", userID), zap.String("view", viewKey))
	return mc.client.Set(&memcache.Item{
		Key:   formatKey(userID, gen, viewKey),
		Value: []byte(report)},
	)
}

func (mc *MemcacheClient) GetReport(userID int64, viewKey string) (string, bool) {
	if mc == nil {
		return "", false
	}
	gen, ok := mc.generation(userID)
	if !ok {
		return "", false
	}

	item, err := mc.client.Get(formatKey(userID, gen, viewKey))
	if errors.Is(err, memcache.ErrCacheMiss) {
		return "", false
	}
	if err != nil {
		logger.Error("cache get failed", zap.Int64("userID", userID), zap.Error(err))
		return "", false
	}
	return string(item.Value), true
}

// InvalidateReports bumps the user's generation so every cached render
// becomes unreachable.
func (mc *MemcacheClient) InvalidateReports(userID int64) error {
	if mc == nil {
		return nil
	}
	logger.Info("invalidate cached reports", zap.Int64("userID", userID))

	_, err := mc.client.Increment(genKey(userID), 1)
	if errors.Is(err, memcache.ErrCacheMiss) {
		return mc.client.Set(&memcache.Item{Key: genKey(userID), Value: []byte("1")})
	}
	return err
}
