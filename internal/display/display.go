package display

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/Prthmsh0210/hire-nerd/internal/backend"
	"github.com/Prthmsh0210/hire-nerd/internal/candidate"
	"github.com/Prthmsh0210/hire-nerd/internal/fetch"
	"github.com/Prthmsh0210/hire-nerd/internal/scheduling"
)

const (
	notAvailable    = "N/A"
	noRedFlags      = "None"
	noInterviews    = "No upcoming interviews scheduled yet."
	noResults       = "No candidates matched yet."
	summaryFallback = "Summary not available."
	roleFallback    = "Role not specified"
)

// Results renders the ranked result table.
func Results(w io.Writer, candidates []*candidate.Candidate) {
	if len(candidates) == 0 {
		fmt.Fprintln(w, noResults)
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Candidate Name", "JD Fit (%)", "Fit", "Interview Score", "AI Interview", "Red Flags"})
	table.SetAutoWrapText(false)

	for idx, c := range candidates {
		fit := notAvailable
		class := ""
		if c.JDFit != nil {
			fit = strconv.FormatFloat(*c.JDFit, 'f', 0, 64) + "%"
			class = candidate.FitClass(*c.JDFit)
		}

		table.Append([]string{
			strconv.Itoa(idx + 1),
			c.DisplayName(),
			fit,
			class,
			score(c.InterviewScore, 1, "/5"),
			score(c.AIInterviewScore, 1, "/5"),
			redFlags(c),
		})
	}

	table.Render()
}

// Dossier renders the expanded profile card of one candidate.
func Dossier(w io.Writer, c *candidate.Candidate) {
	role := c.Role
	if role == "" {
		role = roleFallback
	}

	fmt.Fprintf(w, "%s, %s\n", c.DisplayName(), role)
	if c.Email != "" {
		fmt.Fprintf(w, "  email: %s\n", c.Email)
	}
	if c.Phone != "" {
		fmt.Fprintf(w, "  phone: %s\n", c.Phone)
	}

	fmt.Fprintf(w, "  JD fit: %s\n", score(c.JDFit, 0, "%"))
	if c.HasAIInterview() {
		fmt.Fprintf(w, "  AI voice interview: %s\n", score(c.AIInterviewScore, 1, "/5"))
	}
	fmt.Fprintf(w, "  interview score: %s\n", score(c.InterviewScore, 1, "/5"))
	fmt.Fprintf(w, "  communication: %s\n", score(c.Communication, 0, "/10"))
	if c.Sentiment != nil {
		fmt.Fprintf(w, "  sentiment: %s (%.2f)\n", c.Sentiment.Overall, c.Sentiment.Score)
	}

	if flags := c.RedFlagDescriptions(); len(flags) > 0 {
		fmt.Fprintln(w, "  red flags:")
		for _, flag := range flags {
			fmt.Fprintf(w, "    - %s\n", flag)
		}
	}

	summary := c.ExperienceSummary
	if summary == "" {
		summary = summaryFallback
	}
	fmt.Fprintf(w, "  experience: %s\n", summary)
}

// Briefings renders the upcoming interviews in loc.
func Briefings(w io.Writer, interviews []*backend.Interview, loc *time.Location) {
	if len(interviews) == 0 {
		fmt.Fprintln(w, noInterviews)
		return
	}
	if loc == nil {
		loc = time.Local
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Candidate", "Email", "Date & Time", "Duration", "Interviewers", "Meet", "Calendar"})
	table.SetAutoWrapText(false)

	for _, i := range interviews {
		when := i.StartTime
		if t, ok := i.Start(); ok {
			when = t.In(loc).Format(scheduling.DisplayLayout)
		}

		table.Append([]string{
			i.CandidateName,
			i.CandidateEmail,
			when,
			fmt.Sprintf("%d minutes", i.DurationMinutes),
			strings.Join(i.InterviewerEmails, ", "),
			i.GoogleMeetLink,
			i.GoogleCalendarLink,
		})
	}

	table.Render()
}

// Dashboard renders the analytics aggregates.
func Dashboard(w io.Writer, d *fetch.Dashboard) {
	if d == nil || d.Analytics == nil {
		return
	}
	if d.Degraded {
		fmt.Fprintf(w, "%s Showing sample data.\n", d.Notice)
	}

	fmt.Fprintf(w, "No-shows: %d  Upcoming interviews: %d  Auto-matched profiles: %d\n",
		d.NoShows, d.UpcomingInterviews, d.AutoMatchedProfiles)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Series", "Labels", "Data"})
	table.SetAutoWrapText(false)
	table.Append([]string{"Resume review status", "Reviewed, In Progress, Skipped", numbers(d.PieData)})
	table.Append([]string{"Average CQI", "Jan., Feb., Mar., Apr., May", numbers(d.BarData)})
	table.Append(series("Hiring funnel", d.FunnelStages))
	table.Append(series("CQI trend", d.CQITrend))
	table.Append(series("Red flag frequency", d.RedFlagFrequency))
	table.Render()

	for _, detail := range d.UpcomingInterviewsDetails {
		fmt.Fprintf(w, "  %s (%s): %s\n", detail.Name, detail.Role, detail.Date)
	}
}

// ScheduleResult renders a scheduling outcome.
func ScheduleResult(w io.Writer, name string, res *scheduling.Result) {
	fmt.Fprintln(w, scheduling.Summary(name, res))
	if !res.Success() {
		return
	}

	fmt.Fprintf(w, "  scheduled for: %s\n", res.Display)
	if res.MeetLink != "" {
		fmt.Fprintf(w, "  meet link: %s\n", res.MeetLink)
	}
	if res.CalendarLink != "" {
		fmt.Fprintf(w, "  calendar event: %s\n", res.CalendarLink)
	}
}

func score(v *float64, prec int, suffix string) string {
	if v == nil {
		return notAvailable
	}
	return strconv.FormatFloat(*v, 'f', prec, 64) + suffix
}

func redFlags(c *candidate.Candidate) string {
	flags := c.RedFlagDescriptions()
	if len(flags) == 0 {
		return noRedFlags
	}
	return strings.Join(flags, "; ")
}

func numbers(values []float64) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, strconv.FormatFloat(v, 'f', -1, 64))
	}
	return strings.Join(parts, ", ")
}

func series(name string, s backend.Series) []string {
	return []string{name, strings.Join(s.Labels, ", "), numbers(s.Data)}
}
