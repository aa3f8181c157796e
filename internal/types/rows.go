package types

import "strconv"

// Drama is one row of the drama master table scraped from the wiki list page
// and each work's detail page.
type Drama struct {
	Title        string
	Genre        string
	Channel      string
	FirstDay     string // "YYYY.MM.DD" or ""
	EndDay       string
	Status       string // 방송 예정 / 방영중 / 종영 / ""
	Director     string
	Writer       string
	AvgRating    string // "12.3%" or ""
	EpisodeCount string // "16부작" or ""
}

// DramaHeaders is the CSV header row for Drama.
var DramaHeaders = []string{
	"title", "genre_name", "channel_name", "first_day", "end_day",
	"status", "director", "writer", "avg_rating", "episode_count",
}

// Record flattens the row in header order.
func (d Drama) Record() []string {
	return []string{
		d.Title, d.Genre, d.Channel, d.FirstDay, d.EndDay,
		d.Status, d.Director, d.Writer, d.AvgRating, d.EpisodeCount,
	}
}

// WeeklySchedule is a drama's broadcast slot from the wiki infobox.
type WeeklySchedule struct {
	Title     string
	DOW       string // "수요일, 목요일"
	StartTime string // "22:30" or "22:30~00:00"
	Runtime   string // "70분" or ""
}

var WeeklyHeaders = []string{"title", "dow", "start_time", "runtime"}

func (w WeeklySchedule) Record() []string {
	return []string{w.Title, w.DOW, w.StartTime, w.Runtime}
}

// Episode is one broadcast episode parsed from an encyclopedia episode table.
type Episode struct {
	DramaTitle  string
	EpisodeNo   string // normalized to "<N>화"
	Title       string
	BroadcastAt string
	RuntimeMin  string // "<N>분", backfilled from the weekly schedule
	Description string
}

var EpisodeHeaders = []string{"drama_title", "episode_no", "title", "broadcast_at", "runtime_min", "description"}

func (e Episode) Record() []string {
	return []string{e.DramaTitle, e.EpisodeNo, e.Title, e.BroadcastAt, e.RuntimeMin, e.Description}
}

// Description is a drama's summary table serialized to one line of text.
type Description struct {
	Title       string
	Description string
}

var DescriptionHeaders = []string{"title", "description"}

func (d Description) Record() []string {
	return []string{d.Title, d.Description}
}

// Person is a cast member scraped from their own wiki article.
type Person struct {
	Name      string
	BirthDate string // "YYYY년 M월 D일" or ""
	Gender    string // 남성 / 여성 / ""
}

var PersonHeaders = []string{"name", "birth_date", "gender"}

func (p Person) Record() []string {
	return []string{p.Name, p.BirthDate, p.Gender}
}

// CastRole links a drama to a character line from its cast section.
type CastRole struct {
	DramaTitle    string
	PersonName    string
	RoleType      string
	CharacterName string
	OrderNo       int
}

var CastRoleHeaders = []string{"drama_title", "person_name", "role_type", "character_name", "order_no"}

func (c CastRole) Record() []string {
	return []string{c.DramaTitle, c.PersonName, c.RoleType, c.CharacterName, strconv.Itoa(c.OrderNo)}
}

// CategoryDrama is a title row from a genre category crawl.
type CategoryDrama struct {
	Title   string
	Genre   string
	Channel string
}

var CategoryHeaders = []string{"title", "genre_name", "channel_name"}

func (c CategoryDrama) Record() []string {
	return []string{c.Title, c.Genre, c.Channel}
}

// ImageRef is one representative image URL for a drama or person.
type ImageRef struct {
	Title  string
	Type   string // "drama_image" or "image"
	URL    string
	SortNo int
}

var ImageRefHeaders = []string{"title", "type", "url", "sort_no"}

func (r ImageRef) Record() []string {
	return []string{r.Title, r.Type, r.URL, strconv.Itoa(r.SortNo)}
}

// ImageResult logs the outcome of one image-fetch attempt, success or not.
type ImageResult struct {
	Title     string
	PageURL   string
	ImageURL  string
	SavedPath string
	Status    string // OK / FAIL
	Note      string
}

var ImageResultHeaders = []string{"title", "page_url", "image_url", "saved_path", "status", "note"}

func (r ImageResult) Record() []string {
	return []string{r.Title, r.PageURL, r.ImageURL, r.SavedPath, r.Status, r.Note}
}
