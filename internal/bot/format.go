package bot

import (
	"fmt"
	"strings"
	"time"

	"church_site/internal/i18n"
	"church_site/internal/model"
	"church_site/internal/service"
)

// translate looks up a UI string in the reader's language.
type translate func(key string) string

// FormatSchedule formats the weekly programmes of every assembly.
func FormatSchedule(assemblies []model.Assembly, lang i18n.Lang, t translate) string {
	var b strings.Builder
	b.WriteString(t("schedule.title"))
	b.WriteString("\n")
	for _, a := range assemblies {
		fmt.Fprintf(&b, "\n%s\n", a.Name.Get(lang))
		for _, it := range a.Items {
			fmt.Fprintf(&b, "  %s %s  %s%s\n", it.Day, it.Time, it.Title.Get(lang), modeLabel(it.Modes))
		}
	}
	return b.String()
}

func modeLabel(modes []model.Mode) string {
	if len(modes) == 0 {
		return ""
	}
	parts := make([]string, len(modes))
	for i, m := range modes {
		parts[i] = string(m)
	}
	return " (" + strings.Join(parts, ", ") + ")"
}

// FormatLeaders formats a flat list of leaders.
func FormatLeaders(people []model.Person, t translate) string {
	if len(people) == 0 {
		return t("leaders.no_results")
	}
	var b strings.Builder
	b.WriteString(t("leaders.title"))
	b.WriteString("\n")
	writePeople(&b, people)
	return b.String()
}

// FormatLeaderTabs formats every leadership tab, skipping tabs with no matches.
func FormatLeaderTabs(tabs []service.LeaderTab, t translate) string {
	var b strings.Builder
	b.WriteString(t("leaders.title"))
	b.WriteString("\n")
	found := false
	for _, tab := range tabs {
		if len(tab.People) == 0 {
			continue
		}
		found = true
		fmt.Fprintf(&b, "\n%s:\n", t("leaders.tab."+tab.Category))
		writePeople(&b, tab.People)
	}
	if !found {
		return t("leaders.no_results")
	}
	return b.String()
}

func writePeople(b *strings.Builder, people []model.Person) {
	for _, p := range people {
		b.WriteString("• ")
		b.WriteString(p.Name)
		if p.Department != "" {
			fmt.Fprintf(b, " (%s)", p.Department)
		}
		for _, contact := range []string{p.Email, p.Phone} {
			if contact != "" {
				fmt.Fprintf(b, " · %s", contact)
			}
		}
		b.WriteString("\n")
	}
}

// FormatMinistries formats ministries with their leader and meeting time.
func FormatMinistries(ministries []model.Ministry, t translate) string {
	if len(ministries) == 0 {
		return t("ministries.no_results")
	}
	var b strings.Builder
	b.WriteString(t("ministries.title"))
	b.WriteString("\n")
	for _, m := range ministries {
		fmt.Fprintf(&b, "\n%s\n", m.Name)
		if m.Description != "" {
			fmt.Fprintf(&b, "%s\n", m.Description)
		}
		if m.Leader != "" {
			fmt.Fprintf(&b, "%s: %s\n", t("ministries.leader"), m.Leader)
		}
		if m.Meets != "" {
			fmt.Fprintf(&b, "%s: %s\n", t("ministries.meets"), m.Meets)
		}
	}
	return b.String()
}

// FormatSermons formats sermons with a link to each video.
func FormatSermons(sermons []model.Sermon, t translate) string {
	if len(sermons) == 0 {
		return t("sermons.no_results")
	}
	var b strings.Builder
	b.WriteString(t("sermons.title"))
	b.WriteString("\n")
	for _, s := range sermons {
		fmt.Fprintf(&b, "\n%s\n", s.Title)
		var meta []string
		if s.Speaker != "" {
			meta = append(meta, s.Speaker)
		}
		if d := s.DateString(); d != "" {
			meta = append(meta, d)
		}
		if len(meta) > 0 {
			fmt.Fprintf(&b, "%s\n", strings.Join(meta, " · "))
		}
		fmt.Fprintf(&b, "%s: %s\n", t("sermons.watch"), s.WatchURL())
	}
	return b.String()
}

// FormatEvents lists events with their IDs; registered ones are ticked.
func FormatEvents(events []model.Event, registered map[string]bool, lang i18n.Lang, t translate) string {
	if len(events) == 0 {
		return t("events.none")
	}
	var b strings.Builder
	b.WriteString(t("events.title"))
	b.WriteString("\n")
	for _, e := range events {
		mark := ""
		if registered[e.ID] {
			mark = " ✓"
		}
		fmt.Fprintf(&b, "\n#%s %s%s\n", e.ID, e.Title.Get(lang), mark)
		fmt.Fprintf(&b, "%s\n", e.StartsAt.Format("Mon 2 Jan 2006, 15:04"))
		if d := e.Description.Get(lang); d != "" {
			fmt.Fprintf(&b, "%s\n", d)
		}
	}
	return b.String()
}

// FormatDevotional formats a daily devotional.
func FormatDevotional(d model.Devotional, t translate) string {
	return fmt.Sprintf("%s\n\n%s\n%s\n\n%s\n\n%s: %s",
		t("devotional.title"), d.Title, d.Verse, d.Text, t("devotional.reflection"), d.Reflection)
}

// FormatBirthdays formats the birthdays of a month.
func FormatBirthdays(birthdays []model.Birthday, month time.Month, t translate) string {
	if len(birthdays) == 0 {
		return t("birthdays.none")
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n", t("birthdays.title"), month)
	for _, bd := range birthdays {
		fmt.Fprintf(&b, "\n%d %s: %s", bd.Day, month.String()[:3], bd.Name)
		if bd.Role != "" {
			fmt.Fprintf(&b, " (%s)", bd.Role)
		}
	}
	return b.String()
}
