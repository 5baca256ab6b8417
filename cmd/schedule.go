package cmd

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/Prthmsh0210/hire-nerd/internal/display"
	"github.com/Prthmsh0210/hire-nerd/internal/failure"
	"github.com/Prthmsh0210/hire-nerd/internal/scheduling"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Schedule a general interview without running a search",
	Run: func(cmd *cobra.Command, _ []string) {
		schedule(cmd)
	},
}

func init() {
	rootCmd.AddCommand(scheduleCmd)

	scheduleCmd.Flags().String("name", "", "candidate name (default is a general placeholder)")
	scheduleCmd.Flags().String("email", "", "candidate email")
	scheduleCmd.Flags().String("interviewers", "", "comma separated interviewer emails")
	scheduleCmd.Flags().String("date", "", "interview date, YYYY-MM-DD")
	scheduleCmd.Flags().String("time", "", "interview time, HH:MM in local time")
	scheduleCmd.Flags().Int("duration", 0, "duration in minutes: 20, 30, 45 or 60")

	viper.BindPFlag("schedule.duration", scheduleCmd.Flags().Lookup("duration"))
}

func schedule(cmd *cobra.Command) {
	ctx := context.Background()

	logger, config, session := setup()

	st := session.Views.ScheduleGeneral()

	name := st.Candidate.Name
	if v, _ := cmd.Flags().GetString("name"); strings.TrimSpace(v) != "" {
		name = v
	}

	email, _ := cmd.Flags().GetString("email")
	date, _ := cmd.Flags().GetString("date")
	at, _ := cmd.Flags().GetString("time")

	interviewers := config.Schedule.Interviewers
	if v, _ := cmd.Flags().GetString("interviewers"); v != "" {
		interviewers = scheduling.ParseEmails(v)
	}

	duration := config.Schedule.Duration
	if duration == 0 {
		duration = scheduling.DefaultDuration
	}

	res, err := session.Schedule(ctx, scheduling.Request{
		CandidateName:     name,
		CandidateEmail:    email,
		InterviewerEmails: interviewers,
		Date:              date,
		Time:              at,
		DurationMinutes:   duration,
	})
	if err != nil {
		var f *failure.Failure
		if errors.As(err, &f) {
			logger.Fatal(f.Message)
		}
		logger.Fatal("scheduling interview", zap.Error(err))
	}

	display.ScheduleResult(os.Stdout, name, res)

	if !res.Success() {
		fields := []zap.Field{zap.Stringer("status", res.Status)}
		if res.Failure != nil && res.Failure.AuthURL != "" {
			fields = append(fields, zap.String("url", res.Failure.AuthURL))
		}
		logger.Fatal("interview is not scheduled", fields...)
	}
}
