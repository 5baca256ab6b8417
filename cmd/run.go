package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/Prthmsh0210/hire-nerd/internal/app"
	"github.com/Prthmsh0210/hire-nerd/internal/backend"
	"github.com/Prthmsh0210/hire-nerd/internal/candidate"
	"github.com/Prthmsh0210/hire-nerd/internal/display"
	"github.com/Prthmsh0210/hire-nerd/internal/failure"
	"github.com/Prthmsh0210/hire-nerd/internal/fetch"
	"github.com/Prthmsh0210/hire-nerd/internal/scheduling"
	"github.com/Prthmsh0210/hire-nerd/internal/submission"
	"github.com/Prthmsh0210/hire-nerd/internal/view"
)

const (
	PromptDossiers        = "Show candidate dossiers"
	PromptUpcoming        = "Show upcoming interviews"
	PromptAIInterview     = "Start AI interview"
	PromptSchedule        = "Schedule interview"
	PromptScheduleGeneral = "Schedule general interview"
	PromptAnalytics       = "Show analytics"
	PromptReportLink      = "Show report download link"
	PromptExport          = "Export report to file"
	PromptExit            = "Exit"
	PromptBack            = "back"

	commandEnd   = "/end"
	commandClose = "/close"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{
		PromptDossiers, PromptUpcoming, PromptAIInterview, PromptSchedule,
		PromptScheduleGeneral, PromptAnalytics, PromptReportLink, PromptExport, PromptExit,
	},
	Size: 9,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Match resumes against a job description and work with the results",
	Run: func(_ *cobra.Command, _ []string) {
		run()
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("jd", "", "job description file")
	runCmd.Flags().StringSlice("resume", nil, "resume file, repeatable")
	runCmd.Flags().Bool("consent", false, "confirm consent to process the uploaded documents")
	runCmd.Flags().String("report-dir", "", "directory for exported reports")

	viper.BindPFlag("upload.job-description", runCmd.Flags().Lookup("jd"))
	viper.BindPFlag("upload.resumes", runCmd.Flags().Lookup("resume"))
	viper.BindPFlag("upload.consent", runCmd.Flags().Lookup("consent"))
	viper.BindPFlag("report.dir", runCmd.Flags().Lookup("report-dir"))
}

// run is the main command for the cli.
func run() {
	ctx := context.Background()

	logger, config, session := setup()

	req, err := uploadRequest(config.Upload)
	if err != nil {
		logger.Fatal("reading upload files", zap.Error(err))
	}

	outcome, err := session.Search(ctx, req)
	if err != nil {
		var f *failure.Failure
		if errors.As(err, &f) {
			logger.Fatal(f.Message, zap.Stringer("kind", f.Kind), zap.Error(f.Err))
		}
		logger.Fatal("search failed", zap.Error(err))
	}

	if outcome.Notice != "" {
		logger.Info("exiting", zap.String("reason", outcome.Notice))
		return
	}

	display.Results(os.Stdout, session.Results.Snapshot())

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(ctx, action, session, config, logger); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(ctx context.Context, action string, session *app.Session, config *Config, logger *zap.Logger) error {
	switch action {
	case PromptDossiers:
		if st := session.Views.ToggleDossiers(); st.Is(view.Dossiers) {
			for _, c := range session.Results.Snapshot() {
				display.Dossier(os.Stdout, c)
			}
		}
		return nil
	case PromptUpcoming:
		st, loaded := session.ToggleUpcoming(ctx)
		if st.Is(view.UpcomingInterviews) {
			showUpcoming(loaded, logger)
		}
		return nil
	case PromptAIInterview:
		c, err := pickCandidate(session)
		if err != nil || c == nil {
			return err
		}
		return aiInterview(ctx, session, c, config, logger)
	case PromptSchedule:
		c, err := pickCandidate(session)
		if err != nil || c == nil {
			return err
		}
		session.Views.SelectForScheduling(c)
		return scheduleInteractive(ctx, session, config, logger)
	case PromptScheduleGeneral:
		session.Views.ScheduleGeneral()
		return scheduleInteractive(ctx, session, config, logger)
	case PromptAnalytics:
		display.Dashboard(os.Stdout, session.Dashboard(ctx))
		return nil
	case PromptReportLink:
		link, err := session.ReportLink()
		if err != nil {
			logger.Warn(err.Error())
			return nil
		}
		logger.Info("report is ready", zap.String("url", link))
		return nil
	case PromptExport:
		if _, err := session.ExportReport(); err != nil {
			return fmt.Errorf("export report: %w", err)
		}
		return nil
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func uploadRequest(cfg *UploadConfig) (submission.Request, error) {
	req := submission.Request{ConsentGiven: cfg.Consent}

	if path := strings.TrimSpace(cfg.JobDescription); path != "" {
		jd, err := backend.ReadFile(path)
		if err != nil {
			return req, err
		}
		req.JobDescription = &jd
	}

	for _, path := range cfg.Resumes {
		if path = strings.TrimSpace(path); path == "" {
			continue
		}
		resume, err := backend.ReadFile(path)
		if err != nil {
			return req, err
		}
		req.Resumes = append(req.Resumes, resume)
	}

	return req, nil
}

// pickCandidate returns nil when the user goes back.
func pickCandidate(session *app.Session) (*candidate.Candidate, error) {
	candidates := session.Results.Snapshot()

	items := make([]string, 0, len(candidates)+1)
	for idx, c := range candidates {
		label := fmt.Sprintf("%d. %s", idx+1, c.DisplayName())
		if c.JDFit != nil {
			label += fmt.Sprintf(" (JD fit %.0f%%)", *c.JDFit)
		}
		items = append(items, label)
	}

	candidatePrompt := promptui.Select{
		Label: "Choose a candidate and press ENTER",
		Items: append(items, PromptBack),
	}

	idx, _, err := candidatePrompt.Run()
	if err != nil {
		return nil, err
	}
	if idx >= len(candidates) {
		return nil, nil
	}

	return candidates[idx], nil
}

func aiInterview(ctx context.Context, session *app.Session, c *candidate.Candidate, config *Config, logger *zap.Logger) error {
	interview := session.StartInterview(c)

	fmt.Printf("AI interview with %s. Type %s to finish, %s to leave.\n", c.DisplayName(), commandEnd, commandClose)

	for !interview.Finished() {
		answerPrompt := promptui.Prompt{Label: interview.Question()}

		answer, err := answerPrompt.Run()
		if err != nil {
			return err
		}

		switch strings.TrimSpace(answer) {
		case commandClose:
			session.Views.CloseAIInterview()
			return nil
		case commandEnd:
			interview.SimulateEnd()
		default:
			turn, err := interview.Respond(ctx, answer)
			if err != nil {
				return err
			}
			if turn.Failed {
				logger.Warn(turn.Question)
			}
		}
	}

	if updated := session.Results.Find(c.Key()); updated != nil {
		display.Dossier(os.Stdout, updated)
	}

	if !session.Views.State().Is(view.Scheduler) {
		return nil
	}

	return scheduleInteractive(ctx, session, config, logger)
}

func scheduleInteractive(ctx context.Context, session *app.Session, config *Config, logger *zap.Logger) error {
	st := session.Views.State()
	if st.Candidate == nil {
		return nil
	}

	name, err := ask("Candidate name", st.Candidate.Name)
	if err != nil {
		return err
	}
	email, err := ask("Candidate email", st.Candidate.Email)
	if err != nil {
		return err
	}
	interviewers, err := ask("Interviewer emails (comma separated)", strings.Join(config.Schedule.Interviewers, ", "))
	if err != nil {
		return err
	}

	tomorrow := time.Now().AddDate(0, 0, 1)
	date, err := ask("Date (YYYY-MM-DD)", tomorrow.Format(time.DateOnly))
	if err != nil {
		return err
	}
	at, err := ask("Time (HH:MM)", "10:00")
	if err != nil {
		return err
	}

	duration, err := pickDuration(config.Schedule.Duration)
	if err != nil {
		return err
	}

	res, err := session.Schedule(ctx, scheduling.Request{
		CandidateName:     name,
		CandidateEmail:    email,
		InterviewerEmails: scheduling.ParseEmails(interviewers),
		Date:              date,
		Time:              at,
		DurationMinutes:   duration,
	})
	if err != nil {
		logger.Warn("interview is not scheduled", zap.Error(err))
		return nil
	}

	display.ScheduleResult(os.Stdout, name, res)

	if res.Status == scheduling.NeedsAuthorization && res.Failure != nil && res.Failure.AuthURL != "" {
		logger.Warn("authorize the backend calendar access", zap.String("url", res.Failure.AuthURL))
	}

	return nil
}

func pickDuration(preferred int) (int, error) {
	items := make([]string, 0, len(scheduling.Durations))
	cursor := 0
	for idx, d := range scheduling.Durations {
		items = append(items, strconv.Itoa(d)+" minutes")
		if d == preferred {
			cursor = idx
		}
	}

	durationPrompt := promptui.Select{
		Label:     "Duration",
		Items:     items,
		CursorPos: cursor,
	}

	idx, _, err := durationPrompt.Run()
	if err != nil {
		return 0, err
	}

	return scheduling.Durations[idx], nil
}

func ask(label, def string) (string, error) {
	p := promptui.Prompt{Label: label, Default: def, AllowEdit: true}
	answer, err := p.Run()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}

func showUpcoming(st fetch.State[[]*backend.Interview], logger *zap.Logger) {
	if st.Phase == fetch.Error {
		fields := []zap.Field{zap.Stringer("kind", st.Err.Kind)}
		if st.Err.AuthURL != "" {
			fields = append(fields, zap.String("url", st.Err.AuthURL))
		}
		logger.Warn(st.Err.Message, fields...)
		return
	}

	display.Briefings(os.Stdout, st.Data, time.Local)
}
