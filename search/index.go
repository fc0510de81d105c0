package search

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/go-redis/redis/v8"
)

var ErrUnknownKind = errors.New("search: unknown document kind")

// Index answers autocomplete queries over team and player documents.
type Index interface {
	// Replace makes docs the complete content of kind's index.
	Replace(ctx context.Context, kind Kind, docs []Document) error
	Put(ctx context.Context, doc Document) error
	Remove(ctx context.Context, kind Kind, id int) error
	// Autocomplete returns matching ids in ascending order.
	Autocomplete(ctx context.Context, kind Kind, query string) ([]int, error)
}

// RedisIndex keeps, per kind:
//
//	<prefix>idx:<kind>:ids              set of indexed ids
//	<prefix>idx:<kind>:doc:<id>         hash {text, name}
//	<prefix>idx:<kind>:grams:<id>       set of grams the doc was indexed under
//	<prefix>idx:<kind>:gram:<gram>      set of ids carrying the gram
type RedisIndex struct {
	client    *redis.Client
	keyPrefix string
}

func NewRedisIndex(client *redis.Client, keyPrefix string) *RedisIndex {
	if client == nil {
		panic("redis client cannot be nil for RedisIndex")
	}
	if keyPrefix == "" {
		keyPrefix = "league:"
	}
	return &RedisIndex{client: client, keyPrefix: keyPrefix}
}

func (x *RedisIndex) idsKey(kind Kind) string {
	return fmt.Sprintf("%sidx:%s:ids", x.keyPrefix, kind)
}

func (x *RedisIndex) docKey(kind Kind, id string) string {
	return fmt.Sprintf("%sidx:%s:doc:%s", x.keyPrefix, kind, id)
}

func (x *RedisIndex) docGramsKey(kind Kind, id string) string {
	return fmt.Sprintf("%sidx:%s:grams:%s", x.keyPrefix, kind, id)
}

func (x *RedisIndex) gramKey(kind Kind, gram string) string {
	return fmt.Sprintf("%sidx:%s:gram:%s", x.keyPrefix, kind, gram)
}

func (x *RedisIndex) Replace(ctx context.Context, kind Kind, docs []Document) error {
	if !kind.Valid() {
		return ErrUnknownKind
	}
	keep := make(map[string]struct{}, len(docs))
	for _, d := range docs {
		if d.Kind != kind {
			return fmt.Errorf("search: %s document %d in %s rebuild", d.Kind, d.ID, kind)
		}
		keep[strconv.Itoa(d.ID)] = struct{}{}
	}

	existing, err := x.client.SMembers(ctx, x.idsKey(kind)).Result()
	if err != nil {
		return fmt.Errorf("redis: smembers %s: %w", x.idsKey(kind), err)
	}
	for _, id := range existing {
		if _, ok := keep[id]; ok {
			continue
		}
		if err := x.remove(ctx, kind, id); err != nil {
			return err
		}
	}
	for _, d := range docs {
		if err := x.Put(ctx, d); err != nil {
			return err
		}
	}
	return nil
}

func (x *RedisIndex) Put(ctx context.Context, doc Document) error {
	if !doc.Kind.Valid() {
		return ErrUnknownKind
	}
	id := strconv.Itoa(doc.ID)
	gramsKey := x.docGramsKey(doc.Kind, id)

	old, err := x.client.SMembers(ctx, gramsKey).Result()
	if err != nil {
		return fmt.Errorf("redis: smembers %s: %w", gramsKey, err)
	}
	grams := Grams(doc.Ngram)
	fresh := make(map[string]struct{}, len(grams))
	for _, g := range grams {
		fresh[g] = struct{}{}
	}

	_, err = x.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, g := range old {
			if _, ok := fresh[g]; !ok {
				pipe.SRem(ctx, x.gramKey(doc.Kind, g), id)
			}
		}
		pipe.Del(ctx, gramsKey)
		for _, g := range grams {
			pipe.SAdd(ctx, x.gramKey(doc.Kind, g), id)
			pipe.SAdd(ctx, gramsKey, g)
		}
		pipe.HSet(ctx, x.docKey(doc.Kind, id), "text", doc.Text, "name", doc.Name)
		pipe.SAdd(ctx, x.idsKey(doc.Kind), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis: index %s %s: %w", doc.Kind, id, err)
	}
	return nil
}

func (x *RedisIndex) Remove(ctx context.Context, kind Kind, id int) error {
	if !kind.Valid() {
		return ErrUnknownKind
	}
	return x.remove(ctx, kind, strconv.Itoa(id))
}

func (x *RedisIndex) remove(ctx context.Context, kind Kind, id string) error {
	gramsKey := x.docGramsKey(kind, id)
	grams, err := x.client.SMembers(ctx, gramsKey).Result()
	if err != nil {
		return fmt.Errorf("redis: smembers %s: %w", gramsKey, err)
	}
	_, err = x.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, g := range grams {
			pipe.SRem(ctx, x.gramKey(kind, g), id)
		}
		pipe.Del(ctx, gramsKey, x.docKey(kind, id))
		pipe.SRem(ctx, x.idsKey(kind), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis: unindex %s %s: %w", kind, id, err)
	}
	return nil
}

func (x *RedisIndex) Autocomplete(ctx context.Context, kind Kind, query string) ([]int, error) {
	if tooShort(query) {
		return []int{}, nil
	}
	if !kind.Valid() {
		return nil, ErrUnknownKind
	}
	grams := QueryGrams(query)
	if len(grams) == 0 {
		return []int{}, nil
	}
	keys := make([]string, 0, len(grams))
	for _, g := range grams {
		keys = append(keys, x.gramKey(kind, g))
	}

	members, err := x.client.SInter(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: sinter %s: %w", kind, err)
	}
	ids := make([]int, 0, len(members))
	for _, m := range members {
		id, err := strconv.Atoi(m)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids, nil
}
