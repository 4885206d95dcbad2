// Package tips picks the daily moments shown under the countdown.
package tips

import (
	"fmt"
	"time"
)

type Category string

const (
	Insight Category = "Insight"
	Prompt  Category = "Prompt"
	Fact    Category = "Fact"
	Memory  Category = "Memory"
)

// Categories lists the categories in display order.
var Categories = []Category{Insight, Prompt, Fact, Memory}

type Item struct {
	Category Category
	Title    string
	Content  string
	Emoji    string
}

var items = []Item{
	{Insight, "Wedding Journey Insight", "You're entering the planning phase. Take a deep breath and enjoy the creative process of designing your special day.", "✨"},
	{Prompt, "Emotional Prompt", "Talk about your first dance tonight. What song feels like 'you' as a couple?", "💃"},
	{Fact, "Wedding Fact", "Most invitations are sent 60 days before the wedding to give guests plenty of time to RSVP.", "✉️"},
	{Memory, "Memory Trigger", "Take a photo together today. These little moments in your journey are just as precious as the big day.", "📸"},
	{Insight, "Wedding Journey Insight", "This is a great time to think about music. What melodies will define the atmosphere of your ceremony?", "🎵"},
	{Prompt, "Emotional Prompt", "What moment are you most excited for? Share it with each other and visualize the joy.", "❤️"},
	{Fact, "Wedding Fact", "Average planning time is 12 months, allowing for a relaxed pace and thoughtful decisions.", "📅"},
	{Prompt, "Emotional Prompt", "What made you say yes? Reflect on the early days of your love and the growth of your bond.", "💍"},
	{Insight, "Wedding Journey Insight", "Most couples start choosing outfits around this stage. Explore styles that make you feel truly yourself.", "👔"},
	{Memory, "Memory Trigger", "Capture this moment in your journey. Write down one thing that made you smile today.", "📝"},
}

// All returns every tip.
func All() []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}

// DayKey formats the local day without zero padding, e.g. "2026-3-7".
func DayKey(t time.Time) string {
	return fmt.Sprintf("%d-%d-%d", t.Year(), int(t.Month()), t.Day())
}

// Hash is the 31-multiplier string hash over UTF-16 code units, wrapped to
// int32 and made non-negative.
func Hash(s string) int64 {
	var h int32
	for _, r := range s {
		if r > 0xFFFF {
			hi, lo := surrogates(r)
			h = h*31 + int32(hi)
			h = h*31 + int32(lo)
			continue
		}
		h = h*31 + int32(r)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return v
}

func surrogates(r rune) (rune, rune) {
	r -= 0x10000
	return 0xD800 + (r>>10)&0x3FF, 0xDC00 + r&0x3FF
}

// ForDay returns one tip per category for the calendar day of t. The same
// day always yields the same tips.
func ForDay(t time.Time) []Item {
	h := Hash(DayKey(t))
	out := make([]Item, 0, len(Categories))
	for _, c := range Categories {
		var pool []Item
		for _, it := range items {
			if it.Category == c {
				pool = append(pool, it)
			}
		}
		out = append(out, pool[h%int64(len(pool))])
	}
	return out
}
