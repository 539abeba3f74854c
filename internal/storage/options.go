package storage

import (
	"context"

	"go.uber.org/zap"

	"github.com/xtding233/spinwheel/internal/log"
	"github.com/xtding233/spinwheel/internal/wheel"
)

// OptionsKey is where a single-user wheel keeps its options.
const OptionsKey = "options"

// SessionKey namespaces the options of one session.
func SessionKey(sessionID string) string {
	return OptionsKey + "/" + sessionID
}

// OptionsRepo stores an option set as JSON under one key. It satisfies
// wheel.Persister.
type OptionsRepo struct {
	Store Store
	Key   string
	// Fallback is used when nothing usable is stored. Nil means
	// wheel.DefaultOptions.
	Fallback wheel.OptionSet
}

func NewOptionsRepo(store Store, key string, fallback wheel.OptionSet) *OptionsRepo {
	return &OptionsRepo{Store: store, Key: key, Fallback: fallback}
}

func (r *OptionsRepo) fallback() wheel.OptionSet {
	if len(r.Fallback) > 0 {
		return r.Fallback.Clone()
	}
	return wheel.DefaultOptions()
}

// Load never fails: a missing, unreadable or malformed value yields the
// fallback set.
func (r *OptionsRepo) Load(ctx context.Context) wheel.OptionSet {
	b, ok, err := r.Store.Get(ctx, r.Key)
	if err != nil {
		log.Warn(ctx, "failed to read options; using defaults", zap.String("key", r.Key), zap.Error(err))
		return r.fallback()
	}
	if !ok {
		return r.fallback()
	}
	set, err := wheel.DecodeOptions(b)
	if err != nil {
		log.Warn(ctx, "stored options are malformed; using defaults", zap.String("key", r.Key), zap.Error(err))
		return r.fallback()
	}
	return set
}

func (r *OptionsRepo) Save(ctx context.Context, set wheel.OptionSet) error {
	b, err := wheel.EncodeOptions(set)
	if err != nil {
		return err
	}
	return r.Store.Put(ctx, r.Key, b)
}
