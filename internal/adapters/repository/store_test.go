package repository_test

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/redis/go-redis/v9"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/JetxcheDev/f1-prode/internal/adapters/repository"
	"github.com/JetxcheDev/f1-prode/internal/domain/model"
	"github.com/JetxcheDev/f1-prode/internal/domain/ranking"
	"github.com/JetxcheDev/f1-prode/internal/domain/scoring"
)

func sampleRecord() repository.Record {
	scores := []model.UserScore{
		{UserID: "u1", DisplayName: "Ana", TotalPoints: 23, PoleHits: 1, TotalPoleVotes: 1, PoleAccuracy: 100, RacesParticipated: 1, HasVoted: true},
		{UserID: "u2", DisplayName: "Beto"},
	}
	return repository.Record{
		GeneratedAt: time.Date(2025, 3, 16, 8, 0, 0, 0, time.UTC),
		Policy:      scoring.Defaults(),
		Scores:      scores,
		Rankings:    ranking.Build(scores),
		Counts:      repository.Counts{Users: 2, Events: 1, DecidedEvents: 1, Forecasts: 1, Results: 1},
	}
}

// storeContract runs the behaviour every Store must share.
func storeContract(ctx context.Context, s repository.Store) {
	Convey("When nothing has been saved", func() {
		_, err := s.Latest(ctx)
		So(err, ShouldEqual, repository.ErrNotFound)
	})

	Convey("When a record is saved", func() {
		rec := sampleRecord()
		So(s.Save(ctx, rec), ShouldBeNil)

		Convey("Then Latest returns it unchanged", func() {
			got, err := s.Latest(ctx)
			So(err, ShouldBeNil)
			So(cmp.Diff(rec, got), ShouldBeEmpty)

			pos, err := got.Rankings.Position("u1")
			So(err, ShouldBeNil)
			So(pos.Rank, ShouldEqual, 1)
		})

		Convey("Then scores of non-voters are still reachable", func() {
			got, _ := s.Latest(ctx)
			score, err := got.Score("u2")
			So(err, ShouldBeNil)
			So(score.HasVoted, ShouldBeFalse)

			_, err = got.Score("ghost")
			So(err, ShouldEqual, repository.ErrNotFound)
		})

		Convey("And Clear removes it", func() {
			So(s.Clear(ctx), ShouldBeNil)
			_, err := s.Latest(ctx)
			So(err, ShouldEqual, repository.ErrNotFound)
		})
	})
}

func TestMemoryStore(t *testing.T) {
	Convey("Given a memory store", t, func() {
		ctx := context.Background()
		storeContract(ctx, repository.NewMemoryStore())
	})

	Convey("Given a memory store with a TTL", t, func() {
		ctx := context.Background()
		now := time.Date(2025, 3, 16, 8, 0, 0, 0, time.UTC)
		s := repository.NewMemoryStore(
			repository.WithTTL(time.Minute),
			repository.WithClock(func() time.Time { return now }),
		)
		So(s.Save(ctx, sampleRecord()), ShouldBeNil)

		Convey("When the TTL has not elapsed", func() {
			now = now.Add(30 * time.Second)
			_, err := s.Latest(ctx)
			So(err, ShouldBeNil)
		})

		Convey("When the TTL has elapsed", func() {
			now = now.Add(time.Minute)
			_, err := s.Latest(ctx)
			So(err, ShouldEqual, repository.ErrNotFound)
		})
	})
}

func redisAddr() string {
	if addr := os.Getenv("PRODE_TEST_REDIS_ADDR"); addr != "" {
		return addr
	}
	return "localhost:6379"
}

// TestRedisStore requires a reachable Redis; it is skipped otherwise.
func TestRedisStore(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: redisAddr()})
	pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		t.Skip("Redis not available, skipping integration test")
	}
	defer client.Close()

	Convey("Given a redis store on a unique key", t, func() {
		ctx := context.Background()
		key := "prode-test-" + strconv.FormatInt(time.Now().UnixNano(), 10)
		s := repository.NewRedisStore(client, repository.WithKey(key), repository.WithTTL(time.Minute))
		Reset(func() { client.Del(ctx, key) })

		So(s.Ping(ctx), ShouldBeNil)
		storeContract(ctx, s)

		Convey("When the key holds garbage", func() {
			So(client.Set(ctx, key, "{not json", 0).Err(), ShouldBeNil)
			_, err := s.Latest(ctx)
			So(err, ShouldWrap, repository.ErrCorrupt)
		})

		Convey("When a record is saved with a TTL", func() {
			So(s.Save(ctx, sampleRecord()), ShouldBeNil)
			ttl, err := client.TTL(ctx, key).Result()
			So(err, ShouldBeNil)
			So(ttl, ShouldBeGreaterThan, 0)
		})
	})
}
