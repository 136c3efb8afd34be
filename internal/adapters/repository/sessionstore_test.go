package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/okian/moviesongs/internal/adapters/repository"
	"github.com/okian/moviesongs/internal/domain/model"
	"github.com/okian/moviesongs/internal/domain/quiz"
	. "github.com/smartystreets/goconvey/convey"
)

func newSession() *quiz.Session {
	cat := model.NewCatalog([]model.Song{{Title: "t", Artist: "a", Movies: []model.MovieAppearance{{Name: "m"}}}})
	return quiz.NewSession(cat, quiz.WithRand(quiz.NewRand(1)))
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("s%d", n)
	}
}

func TestSessionStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given a session store", t, func() {
		store := repository.NewSessionStore()

		Convey("When creating a session", func() {
			id, err := store.Create(ctx, newSession())
			So(err, ShouldBeNil)

			Convey("Then it gets a uuid and can be used", func() {
				So(len(id), ShouldEqual, 36)
				So(store.Len(ctx), ShouldEqual, 1)

				var phase quiz.Phase
				err := store.With(ctx, id, func(s *quiz.Session) error {
					_, err := s.Start()
					phase = s.Phase()
					return err
				})
				So(err, ShouldBeNil)
				So(phase, ShouldEqual, quiz.PhaseQuestionActive)
			})

			Convey("Then errors from the callback are returned", func() {
				err := store.With(ctx, id, func(*quiz.Session) error { return quiz.ErrAnswerPending })
				So(err, ShouldEqual, quiz.ErrAnswerPending)
			})

			Convey("When deleted", func() {
				store.Delete(ctx, id)
				store.Delete(ctx, "unknown")

				Convey("Then it is gone", func() {
					err := store.With(ctx, id, func(*quiz.Session) error { return nil })
					So(err, ShouldEqual, repository.ErrSessionNotFound)
					So(store.Len(ctx), ShouldEqual, 0)
				})
			})
		})

		Convey("When using an unknown id", func() {
			err := store.With(ctx, "missing", func(*quiz.Session) error { return nil })
			So(err, ShouldEqual, repository.ErrSessionNotFound)
		})
	})

	Convey("Given a store bounded to two sessions", t, func() {
		store := repository.NewSessionStore(
			repository.WithMaxSessions(2),
			repository.WithIDGenerator(sequentialIDs()),
		)
		s1, _ := store.Create(ctx, newSession())
		s2, _ := store.Create(ctx, newSession())

		Convey("When the oldest was used recently and a third is created", func() {
			So(store.With(ctx, s1, func(*quiz.Session) error { return nil }), ShouldBeNil)
			s3, _ := store.Create(ctx, newSession())

			Convey("Then the least recently used session is evicted", func() {
				So(store.Len(ctx), ShouldEqual, 2)
				So(store.With(ctx, s2, func(*quiz.Session) error { return nil }), ShouldEqual, repository.ErrSessionNotFound)
				So(store.With(ctx, s1, func(*quiz.Session) error { return nil }), ShouldBeNil)
				So(store.With(ctx, s3, func(*quiz.Session) error { return nil }), ShouldBeNil)
			})
		})
	})

	Convey("Given a store with a TTL and a controllable clock", t, func() {
		now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
		clock := func() time.Time { return now }
		store := repository.NewSessionStore(
			repository.WithSessionTTL(time.Minute),
			repository.WithClock(clock),
			repository.WithIDGenerator(sequentialIDs()),
		)
		old, _ := store.Create(ctx, newSession())
		now = now.Add(45 * time.Second)
		fresh, _ := store.Create(ctx, newSession())

		Convey("When time passes beyond the TTL of the first session only", func() {
			now = now.Add(30 * time.Second)

			Convey("Then Sweep removes just the idle one", func() {
				So(store.Sweep(ctx), ShouldEqual, 1)
				So(store.Len(ctx), ShouldEqual, 1)
				So(store.With(ctx, fresh, func(*quiz.Session) error { return nil }), ShouldBeNil)
			})

			Convey("Then using the idle one reports it missing", func() {
				So(store.With(ctx, old, func(*quiz.Session) error { return nil }), ShouldEqual, repository.ErrSessionNotFound)
			})
		})
	})

	Convey("Given a store without a TTL", t, func() {
		store := repository.NewSessionStore(repository.WithSessionTTL(0))
		_, _ = store.Create(ctx, newSession())

		Convey("Then Sweep never removes anything", func() {
			So(store.Sweep(ctx), ShouldEqual, 0)
			So(store.Len(ctx), ShouldEqual, 1)
		})
	})
}
