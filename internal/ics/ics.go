// Package ics renders pending reviews as an iCalendar file with one
// all-day event per review. The output is a pure function of its inputs:
// the same review set and timestamp always produce the same text.
package ics

import (
	"strings"
	"time"

	"github.com/example/studyplan/internal/domain"
)

const (
	prodID      = "-//studyplan//NONSGML v1.0//EN"
	defaultHost = "studyplan.local"
)

// Build renders the given reviews as a VCALENDAR document. Each review
// becomes an all-day VEVENT spanning its target date to the next day,
// with a stable UID derived from the review id. now supplies DTSTAMP.
// An empty review set produces an empty string.
func Build(reviews []domain.Review, subjects []domain.Subject, lectures []domain.Lecture, now time.Time, host string) string {
	if len(reviews) == 0 {
		return ""
	}
	if host == "" {
		host = defaultHost
	}

	subjectNames := make(map[string]string, len(subjects))
	for _, s := range subjects {
		subjectNames[s.ID] = s.Name
	}
	lectureNames := make(map[string]string, len(lectures))
	for _, l := range lectures {
		lectureNames[l.ID] = l.Name
	}

	dtStamp := now.UTC().Format("20060102T150405Z")

	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:" + prodID,
	}
	for _, review := range reviews {
		subject := escape(subjectNames[review.SubjectID])
		lecture := escape(lectureNames[review.LectureID])
		start := review.TargetDate
		lines = append(lines,
			"BEGIN:VEVENT",
			"UID:"+review.ID+"@"+host,
			"DTSTAMP:"+dtStamp,
			"DTSTART;VALUE=DATE:"+formatDate(start),
			"DTEND;VALUE=DATE:"+formatDate(start.AddDays(1)),
			"SUMMARY:Studyplan: "+subject+" - "+lecture,
			"DESCRIPTION:Scheduled review for "+subject+"\\, lecture: "+lecture+".",
			"END:VEVENT",
		)
	}
	lines = append(lines, "END:VCALENDAR")
	return strings.Join(lines, "\r\n")
}

func formatDate(d domain.Date) string {
	return d.Time().Format("20060102")
}

// escape protects the characters that iCalendar text values reserve.
func escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, ";", `\;`)
	s = strings.ReplaceAll(s, ",", `\,`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return s
}
