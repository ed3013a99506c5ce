// Package content loads the site catalog (FAQ rules, leadership, ministries, sermons,
// schedule, events, devotionals, birthdays, pages and UI strings) from YAML.
package content

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"church_site/internal/i18n"
	"church_site/internal/model"
	"church_site/internal/search"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is returned when a catalog document fails validation.
var ErrInvalid = errors.New("invalid content")

// FAQ is the chat configuration for one language.
type FAQ struct {
	Greeting string
	Fallback string
	Rules    []model.Rule
}

// Catalog is the validated, read-only site content.
type Catalog struct {
	ChannelURL         string
	FAQ                map[i18n.Lang]FAQ
	Leaders            []model.Person
	LeaderCategories   search.Categories
	Ministries         []model.Ministry
	MinistryCategories search.Categories
	Sermons            []model.Sermon
	Assemblies         []model.Assembly
	Events             []model.Event
	Devotionals        []model.Devotional
	Birthdays          []model.Birthday
	Pages              []model.Page
	Strings            i18n.Dictionary
}

// FAQFor returns the FAQ of lang, falling back to English.
func (c *Catalog) FAQFor(lang i18n.Lang) FAQ {
	if f, ok := c.FAQ[lang]; ok {
		return f
	}
	return c.FAQ[i18n.English]
}

// Event returns the event with the given ID.
func (c *Catalog) Event(id string) (model.Event, bool) {
	for _, e := range c.Events {
		if e.ID == id {
			return e, true
		}
	}
	return model.Event{}, false
}

// Page returns the page with the given slug.
func (c *Catalog) Page(slug string) (model.Page, bool) {
	for _, p := range c.Pages {
		if p.Slug == slug {
			return p, true
		}
	}
	return model.Page{}, false
}

type document struct {
	ChannelURL         string               `yaml:"channel_url"`
	FAQ                map[i18n.Lang]faqDoc `yaml:"faq"`
	Leaders            []personDoc          `yaml:"leaders"`
	LeaderCategories   []categoryDoc        `yaml:"leader_categories"`
	Ministries         []ministryDoc        `yaml:"ministries"`
	MinistryCategories []categoryDoc        `yaml:"ministry_categories"`
	Sermons            []sermonDoc          `yaml:"sermons"`
	Schedule           []assemblyDoc        `yaml:"schedule"`
	Events             []eventDoc           `yaml:"events"`
	Devotionals        []model.Devotional   `yaml:"devotionals"`
	Birthdays          []birthdayDoc        `yaml:"birthdays"`
	Pages              []pageDoc            `yaml:"pages"`
	Strings            i18n.Dictionary      `yaml:"strings"`
}

type faqDoc struct {
	Greeting string    `yaml:"greeting"`
	Fallback string    `yaml:"fallback"`
	Rules    []ruleDoc `yaml:"rules"`
}

type ruleDoc struct {
	ID       string   `yaml:"id"`
	Keywords []string `yaml:"keywords"`
	Response string   `yaml:"response"`
}

type personDoc struct {
	Name       string `yaml:"name"`
	Role       string `yaml:"role"`
	Department string `yaml:"department"`
	Email      string `yaml:"email"`
	Phone      string `yaml:"phone"`
	PhotoURL   string `yaml:"photo_url"`
	Order      *int   `yaml:"order"`
	Active     *bool  `yaml:"active"`
}

type ministryDoc struct {
	Name        string   `yaml:"name"`
	Leader      string   `yaml:"leader"`
	Email       string   `yaml:"email"`
	Phone       string   `yaml:"phone"`
	Meets       string   `yaml:"meets"`
	Description string   `yaml:"description"`
	PhotoURL    string   `yaml:"photo_url"`
	Tags        []string `yaml:"tags"`
	Order       *int     `yaml:"order"`
	Active      *bool    `yaml:"active"`
}

type categoryDoc struct {
	Name string   `yaml:"name"`
	Tags []string `yaml:"tags"`
}

type sermonDoc struct {
	VideoID     string   `yaml:"video_id"`
	Title       string   `yaml:"title"`
	Speaker     string   `yaml:"speaker"`
	Date        string   `yaml:"date"`
	Tags        []string `yaml:"tags"`
	Description string   `yaml:"description"`
	Thumbnail   string   `yaml:"thumbnail"`
	Active      *bool    `yaml:"active"`
}

type assemblyDoc struct {
	Key   string    `yaml:"key"`
	Name  i18n.Text `yaml:"name"`
	Items []itemDoc `yaml:"items"`
}

type itemDoc struct {
	Day   string       `yaml:"day"`
	Time  string       `yaml:"time"`
	Title i18n.Text    `yaml:"title"`
	Modes []model.Mode `yaml:"modes"`
}

type eventDoc struct {
	ID          string    `yaml:"id"`
	Title       i18n.Text `yaml:"title"`
	Description i18n.Text `yaml:"description"`
	StartsAt    string    `yaml:"starts_at"`
}

type birthdayDoc struct {
	Name  string `yaml:"name"`
	Role  string `yaml:"role"`
	Month int    `yaml:"month"`
	Day   int    `yaml:"day"`
}

type pageDoc struct {
	Slug  string    `yaml:"slug"`
	Title i18n.Text `yaml:"title"`
	Body  i18n.Text `yaml:"body"`
}

// Default returns the catalog built into the binary.
func Default() (*Catalog, error) {
	var doc document
	if err := decode(defaultsYAML, &doc); err != nil {
		return nil, fmt.Errorf("decode defaults: %w", err)
	}
	return build(&doc)
}

// Load reads the YAML file at path on top of the built-in defaults.
// Sections present in the file replace the default sections; per-language maps
// (faq, strings) are replaced language by language.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path) //nolint:gosec // operator-supplied content path
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}
	return Parse(data)
}

// Parse decodes data on top of the built-in defaults and validates the result.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := decode(defaultsYAML, &doc); err != nil {
		return nil, fmt.Errorf("decode defaults: %w", err)
	}
	if err := decode(data, &doc); err != nil {
		return nil, fmt.Errorf("decode content: %w", err)
	}
	return build(&doc)
}

func decode(data []byte, doc *document) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(doc); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func build(doc *document) (*Catalog, error) {
	c := &Catalog{
		ChannelURL:         doc.ChannelURL,
		FAQ:                make(map[i18n.Lang]FAQ, len(doc.FAQ)),
		LeaderCategories:   categories(doc.LeaderCategories),
		MinistryCategories: categories(doc.MinistryCategories),
		Devotionals:        doc.Devotionals,
		Strings:            make(i18n.Dictionary, len(doc.Strings)),
	}

	for _, cats := range []search.Categories{c.LeaderCategories, c.MinistryCategories} {
		for i, cat := range cats {
			if strings.TrimSpace(cat.Name) == "" || len(cat.Tags) == 0 {
				return nil, invalid("category %d (%s): name and tags are required", i, cat.Name)
			}
		}
	}

	for lang, f := range doc.FAQ {
		if l, err := i18n.Parse(string(lang)); err != nil || l != lang {
			return nil, invalid("faq: unsupported language %q", lang)
		}
		faq := FAQ{Greeting: f.Greeting, Fallback: strings.TrimSpace(f.Fallback)}
		if faq.Fallback == "" {
			return nil, invalid("faq %s: fallback is required", lang)
		}
		for i, r := range f.Rules {
			if len(r.Keywords) == 0 || strings.TrimSpace(r.Response) == "" {
				return nil, invalid("faq %s rule %d (%s): keywords and response are required", lang, i, r.ID)
			}
			faq.Rules = append(faq.Rules, model.Rule{ID: r.ID, Keywords: r.Keywords, Response: r.Response})
		}
		c.FAQ[lang] = faq
	}
	if _, ok := c.FAQ[i18n.English]; !ok {
		return nil, invalid("faq: english section is required")
	}

	for i, p := range doc.Leaders {
		switch p.Role {
		case model.RolePastor, model.RoleElder, model.RoleHOD:
		default:
			return nil, invalid("leader %d (%s): unknown role %q", i, p.Name, p.Role)
		}
		if strings.TrimSpace(p.Name) == "" {
			return nil, invalid("leader %d: name is required", i)
		}
		c.Leaders = append(c.Leaders, model.Person{
			Name: p.Name, Role: p.Role, Department: p.Department,
			Email: p.Email, Phone: p.Phone, PhotoURL: p.PhotoURL,
			Order: p.Order, Active: active(p.Active),
		})
	}

	for i, m := range doc.Ministries {
		if strings.TrimSpace(m.Name) == "" {
			return nil, invalid("ministry %d: name is required", i)
		}
		c.Ministries = append(c.Ministries, model.Ministry{
			Name: m.Name, Leader: m.Leader, Email: m.Email, Phone: m.Phone,
			Meets: m.Meets, Description: m.Description, PhotoURL: m.PhotoURL,
			Tags: m.Tags, Order: m.Order, Active: active(m.Active),
		})
	}

	for i, s := range doc.Sermons {
		if strings.TrimSpace(s.VideoID) == "" {
			return nil, invalid("sermon %d (%s): video_id is required", i, s.Title)
		}
		sermon := model.Sermon{
			VideoID: s.VideoID, Title: s.Title, Speaker: s.Speaker, Tags: s.Tags,
			Description: s.Description, Thumbnail: s.Thumbnail, Active: active(s.Active),
		}
		if s.Date != "" {
			d, err := time.Parse(time.DateOnly, s.Date)
			if err != nil {
				return nil, invalid("sermon %s: date %q: %v", s.VideoID, s.Date, err)
			}
			sermon.Date = &d
		}
		c.Sermons = append(c.Sermons, sermon)
	}

	for _, a := range doc.Schedule {
		if a.Key == "" {
			return nil, invalid("schedule: assembly key is required")
		}
		assembly := model.Assembly{Key: a.Key, Name: a.Name}
		for _, it := range a.Items {
			for _, m := range it.Modes {
				if m != model.ModePhysical && m != model.ModeOnline {
					return nil, invalid("schedule %s: unknown mode %q", a.Key, m)
				}
			}
			assembly.Items = append(assembly.Items, model.ScheduleItem{
				Day: it.Day, Time: it.Time, Title: it.Title, Modes: it.Modes,
			})
		}
		c.Assemblies = append(c.Assemblies, assembly)
	}

	seen := make(map[string]bool, len(doc.Events))
	for _, e := range doc.Events {
		if e.ID == "" || seen[e.ID] {
			return nil, invalid("event %q: id must be unique and non-empty", e.ID)
		}
		seen[e.ID] = true
		starts, err := time.Parse(time.RFC3339, e.StartsAt)
		if err != nil {
			return nil, invalid("event %s: starts_at %q: %v", e.ID, e.StartsAt, err)
		}
		c.Events = append(c.Events, model.Event{
			ID: e.ID, Title: e.Title, Description: e.Description, StartsAt: starts,
		})
	}

	for _, b := range doc.Birthdays {
		if b.Month < 1 || b.Month > 12 || b.Day < 1 || b.Day > 31 {
			return nil, invalid("birthday %s: invalid date %d/%d", b.Name, b.Month, b.Day)
		}
		c.Birthdays = append(c.Birthdays, model.Birthday{
			Name: b.Name, Role: b.Role, Month: time.Month(b.Month), Day: b.Day,
		})
	}

	for _, p := range doc.Pages {
		if p.Slug == "" {
			return nil, invalid("page: slug is required")
		}
		c.Pages = append(c.Pages, model.Page{Slug: p.Slug, Title: p.Title, Body: p.Body})
	}

	for lang, m := range doc.Strings {
		c.Strings[lang] = m
	}
	return c, nil
}

func categories(docs []categoryDoc) search.Categories {
	out := make(search.Categories, 0, len(docs))
	for _, d := range docs {
		out = append(out, search.Category{Name: d.Name, Tags: d.Tags})
	}
	return out
}

func active(v *bool) bool {
	return v == nil || *v
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}
