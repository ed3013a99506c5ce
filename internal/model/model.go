// Package model defines the domain types used across the application.
package model

import (
	"time"

	"church_site/internal/i18n"
)

// Rule maps a set of keywords to a canned FAQ response.
type Rule struct {
	ID       string
	Keywords []string
	Response string
}

// Sender identifies who wrote a chat message.
type Sender string

// Supported senders.
const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// ChatMessage is a single entry of an FAQ conversation.
type ChatMessage struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	Sender    Sender    `json:"sender"`
	CreatedAt time.Time `json:"created_at"`
}

// Leadership roles.
const (
	RolePastor = "pastor"
	RoleElder  = "elder"
	RoleHOD    = "hod"
)

// Person is a member of the church leadership.
type Person struct {
	Name       string `json:"name"`
	Role       string `json:"role"`
	Department string `json:"department,omitempty"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	PhotoURL   string `json:"photo_url,omitempty"`
	Order      *int   `json:"order,omitempty"`
	Active     bool   `json:"-"`
}

// Ministry is a church department people can join.
type Ministry struct {
	Name        string   `json:"name"`
	Leader      string   `json:"leader,omitempty"`
	Email       string   `json:"email,omitempty"`
	Phone       string   `json:"phone,omitempty"`
	Meets       string   `json:"meets,omitempty"`
	Description string   `json:"description,omitempty"`
	PhotoURL    string   `json:"photo_url,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Order       *int     `json:"order,omitempty"`
	Active      bool     `json:"-"`
}

// Sermon is a recorded message published on the church's video channel.
type Sermon struct {
	VideoID     string     `json:"video_id"`
	Title       string     `json:"title"`
	Speaker     string     `json:"speaker,omitempty"`
	Date        *time.Time `json:"date,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	Description string     `json:"description,omitempty"`
	Thumbnail   string     `json:"thumbnail"`
	Active      bool       `json:"-"`
}

// Mode is how a service can be attended.
type Mode string

// Attendance modes.
const (
	ModePhysical Mode = "Physical"
	ModeOnline   Mode = "Online"
)

// ScheduleItem is one recurring weekly programme.
type ScheduleItem struct {
	Day   string
	Time  string
	Title i18n.Text
	Modes []Mode
}

// Assembly groups the weekly programmes of one congregation.
type Assembly struct {
	Key   string
	Name  i18n.Text
	Items []ScheduleItem
}

// Event is a dated church event visitors can RSVP to.
type Event struct {
	ID          string
	Title       i18n.Text
	Description i18n.Text
	StartsAt    time.Time
}

// Devotional is a short daily reading.
type Devotional struct {
	Title      string `json:"title"`
	Verse      string `json:"verse"`
	Text       string `json:"text"`
	Reflection string `json:"reflection"`
}

// Birthday is a member birthday celebrated on the calendar.
type Birthday struct {
	Name  string     `json:"name"`
	Role  string     `json:"role"`
	Month time.Month `json:"month"`
	Day   int        `json:"day"`
}

// Page is a long-form content page written in markdown.
type Page struct {
	Slug  string
	Title i18n.Text
	Body  i18n.Text
}
