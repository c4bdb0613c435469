package catalog

// AllowedGenres is the fixed set of valid Book.genre values.
var AllowedGenres = []string{"Fiction", "Non-Fiction", "Science", "History", "Fantasy", "Mystery"}

// MinPublishedYear is the lower bound for Book.published_year. The
// upper bound is the current year, checked at validation time.
const MinPublishedYear = 1800

// GenreAllowed reports whether g is in the genre allow-list.
func GenreAllowed(g string) bool {
	for _, allowed := range AllowedGenres {
		if g == allowed {
			return true
		}
	}
	return false
}

// Author is created implicitly the first time a book references a new
// name, and is never updated or deleted.
type Author struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Book always references exactly one author; the author is eagerly
// joined so handlers receive a fully populated aggregate.
type Book struct {
	ID            int64  `json:"id" db:"id"`
	Title         string `json:"title" db:"title"`
	Genre         string `json:"genre" db:"genre"`
	PublishedYear int    `json:"published_year" db:"published_year"`
	AuthorID      int64  `json:"-" db:"author_id"`
	Author        Author `json:"author"`
}
