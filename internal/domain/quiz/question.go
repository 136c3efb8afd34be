package quiz

import "github.com/okian/moviesongs/internal/domain/model"

// MaxDistractors is the number of wrong options drawn per question.
const MaxDistractors = 3

// Question is one multiple-choice round.
type Question struct {
	Song          model.Song `json:"song"`
	CorrectAnswer string     `json:"correct_answer"`
	Options       []string   `json:"options"`
}

// Generate builds a question from pool, which must only hold songs with
// at least one movie appearance.
//
// A song and one of its appearances are drawn uniformly; the appearance's
// movie name is the answer. Up to MaxDistractors other distinct movie names
// from the whole pool are drawn without replacement and the options are
// shuffled together.
func Generate(pool []model.Song, r Rand) (Question, error) {
	if len(pool) == 0 {
		return Question{}, ErrNoEligibleQuestions
	}

	song := pool[r.IntN(len(pool))]
	if len(song.Movies) == 0 {
		return Question{}, ErrNoEligibleQuestions
	}
	correct := song.Movies[r.IntN(len(song.Movies))].Name

	alternatives := movieNames(pool, correct)
	options := append([]string{correct}, sample(r, alternatives, MaxDistractors)...)
	shuffle(r, options)

	return Question{
		Song:          song,
		CorrectAnswer: correct,
		Options:       options,
	}, nil
}

// movieNames returns the distinct movie names in pool, in encounter order,
// excluding exclude.
func movieNames(pool []model.Song, exclude string) []string {
	seen := map[string]struct{}{exclude: {}}
	var names []string
	for _, s := range pool {
		for _, m := range s.Movies {
			if _, ok := seen[m.Name]; ok {
				continue
			}
			seen[m.Name] = struct{}{}
			names = append(names, m.Name)
		}
	}
	return names
}
