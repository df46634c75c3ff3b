// Package seed loads a catalog fixture from YAML. Every record goes through
// the same form pipeline as a browser submission, so seeded data is
// validated and escaped exactly like user input.
package seed

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/forms"
)

// File is the YAML document layout.
type File struct {
	Authors   []Author   `yaml:"authors"`
	Genres    []string   `yaml:"genres"`
	Books     []Book     `yaml:"books"`
	Instances []Instance `yaml:"instances"`
}

// Author is referenced from books by Key.
type Author struct {
	Key         string `yaml:"key"`
	FirstName   string `yaml:"first_name"`
	FamilyName  string `yaml:"family_name"`
	DateOfBirth string `yaml:"date_of_birth"`
	DateOfDeath string `yaml:"date_of_death"`
}

// Book is referenced from instances by Key, or by Title when Key is empty.
type Book struct {
	Key     string   `yaml:"key"`
	Title   string   `yaml:"title"`
	Author  string   `yaml:"author"`
	Summary string   `yaml:"summary"`
	ISBN    string   `yaml:"isbn"`
	Genres  []string `yaml:"genres"`
}

type Instance struct {
	Book    string `yaml:"book"`
	Imprint string `yaml:"imprint"`
	Status  string `yaml:"status"`
	DueBack string `yaml:"due_back"`
}

type AuthorCreator interface {
	Create(ctx context.Context, author *entities.Author) error
}

type GenreCreator interface {
	CreateOrGet(ctx context.Context, genre *entities.Genre) (*entities.Genre, bool, error)
}

type BookCreator interface {
	Create(ctx context.Context, book *entities.Book) error
}

type BookInstanceCreator interface {
	Create(ctx context.Context, instance *entities.BookInstance) error
}

// Stores are the repositories the loader writes to.
type Stores struct {
	Authors   AuthorCreator
	Genres    GenreCreator
	Books     BookCreator
	Instances BookInstanceCreator
}

// Summary counts what a load created. Genres that already existed are not
// counted.
type Summary struct {
	Authors   int
	Genres    int
	Books     int
	Instances int
}

// RecordError reports a record rejected by the form pipeline.
type RecordError struct {
	Kind   string
	Index  int
	Errors forms.Errors
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("%s #%d: %s", e.Kind, e.Index+1, strings.Join(e.Errors.Messages(), "; "))
}

// Loader writes a File into the catalog.
type Loader struct {
	stores Stores
	logger *zap.Logger
}

func NewLoader(stores Stores, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{stores: stores, logger: logger.Named("seed")}
}

// Decode reads a YAML document. Unknown keys are rejected.
func Decode(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return &f, nil
		}
		return nil, fmt.Errorf("failed to decode seed file: %w", err)
	}
	return &f, nil
}

// LoadFile decodes path and loads it.
func (l *Loader) LoadFile(ctx context.Context, path string) (Summary, error) {
	fh, err := os.Open(path)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer fh.Close()

	f, err := Decode(fh)
	if err != nil {
		return Summary{}, err
	}
	return l.Load(ctx, f)
}

// Load creates genres, authors, books and copies in dependency order. It
// stops at the first rejected record; records created before it are kept.
func (l *Loader) Load(ctx context.Context, f *File) (Summary, error) {
	var summary Summary

	genreIDs := make(map[string]uuid.UUID, len(f.Genres))
	for i, name := range f.Genres {
		form, errs := forms.ParseGenreCreate(url.Values{"name": {name}})
		if len(errs) > 0 {
			return summary, &RecordError{Kind: "genre", Index: i, Errors: errs}
		}
		genre := form.Genre()
		stored, created, err := l.stores.Genres.CreateOrGet(ctx, &genre)
		if err != nil {
			return summary, fmt.Errorf("failed to create genre %q: %w", name, err)
		}
		if created {
			summary.Genres++
		}
		genreIDs[naturalKey(name)] = stored.ID
	}

	authorIDs := make(map[string]uuid.UUID, len(f.Authors))
	for i, a := range f.Authors {
		form, errs := forms.ParseAuthor(url.Values{
			"first_name":    {a.FirstName},
			"family_name":   {a.FamilyName},
			"date_of_birth": {a.DateOfBirth},
			"date_of_death": {a.DateOfDeath},
		})
		if len(errs) > 0 {
			return summary, &RecordError{Kind: "author", Index: i, Errors: errs}
		}
		author := form.Author()
		if err := l.stores.Authors.Create(ctx, &author); err != nil {
			return summary, fmt.Errorf("failed to create author %q: %w", author.FullName(), err)
		}
		summary.Authors++
		authorIDs[naturalKey(authorKey(a))] = author.ID
	}

	bookIDs := make(map[string]uuid.UUID, len(f.Books))
	for i, b := range f.Books {
		values := url.Values{
			"title":   {b.Title},
			"summary": {b.Summary},
			"isbn":    {b.ISBN},
		}
		if id, ok := authorIDs[naturalKey(b.Author)]; ok {
			values.Set("author", id.String())
		}
		for _, name := range b.Genres {
			id, ok := genreIDs[naturalKey(name)]
			if !ok {
				return summary, &RecordError{Kind: "book", Index: i, Errors: forms.Errors{forms.UnknownGenre}}
			}
			values.Add("genre", id.String())
		}

		form, errs := forms.ParseBook(values)
		if b.Author != "" && values.Get("author") == "" {
			errs = append(errs, forms.UnknownAuthor)
		}
		if len(errs) > 0 {
			return summary, &RecordError{Kind: "book", Index: i, Errors: errs}
		}

		genres := lo.Map(form.GenreIDs(), func(id uuid.UUID, _ int) entities.Genre {
			return entities.Genre{ID: id}
		})
		book := form.Book(genres)
		if err := l.stores.Books.Create(ctx, &book); err != nil {
			return summary, fmt.Errorf("failed to create book %q: %w", b.Title, err)
		}
		summary.Books++
		bookIDs[naturalKey(bookKey(b))] = book.ID
	}

	for i, in := range f.Instances {
		values := url.Values{
			"imprint":  {in.Imprint},
			"status":   {in.Status},
			"due_back": {in.DueBack},
		}
		if id, ok := bookIDs[naturalKey(in.Book)]; ok {
			values.Set("book", id.String())
		}

		form, errs := forms.ParseBookInstance(values)
		if in.Book != "" && values.Get("book") == "" {
			errs = append(errs, forms.UnknownBook)
		}
		if len(errs) > 0 {
			return summary, &RecordError{Kind: "instance", Index: i, Errors: errs}
		}
		instance := form.BookInstance()
		if err := l.stores.Instances.Create(ctx, &instance); err != nil {
			return summary, fmt.Errorf("failed to create copy of %q: %w", in.Book, err)
		}
		summary.Instances++
	}

	l.logger.Info("catalog seeded",
		zap.Int("authors", summary.Authors),
		zap.Int("genres", summary.Genres),
		zap.Int("books", summary.Books),
		zap.Int("instances", summary.Instances),
	)
	return summary, nil
}

func authorKey(a Author) string {
	if a.Key != "" {
		return a.Key
	}
	return a.FirstName + " " + a.FamilyName
}

func bookKey(b Book) string {
	if b.Key != "" {
		return b.Key
	}
	return b.Title
}

func naturalKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
