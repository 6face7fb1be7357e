// Package day отвечает за календарные даты сервиса.
//
// Все даты Jam - строки вида 2006-01-02 в часовом поясе сервиса. Дата устройства
// клиента не используется: «сегодня» всегда вычисляется на сервере.
package day

import (
	"fmt"
	"time"
)

// Layout - формат календарной даты.
const Layout = "2006-01-02"

// Clock возвращает текущее время и сегодняшнюю дату.
type Clock interface {
	Now() time.Time
	Today() string
}

// Calendar - реализация Clock в заданном часовом поясе.
type Calendar struct {
	loc *time.Location
	now func() time.Time
}

// New создаёт Calendar, работающий по системным часам в часовом поясе loc.
func New(loc *time.Location) *Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return &Calendar{loc: loc, now: time.Now}
}

// Fixed создаёт Calendar, всегда возвращающий момент t.
func Fixed(t time.Time) *Calendar {
	return &Calendar{loc: t.Location(), now: func() time.Time { return t }}
}

// Now возвращает текущее время в часовом поясе календаря.
func (c *Calendar) Now() time.Time {
	return c.now().In(c.loc)
}

// Today возвращает сегодняшнюю дату. Часы читаются один раз за вызов.
func (c *Calendar) Today() string {
	return c.Now().Format(Layout)
}

// Location возвращает часовой пояс календаря.
func (c *Calendar) Location() *time.Location {
	return c.loc
}

// Parse проверяет, что s - корректная дата, и возвращает её в каноническом виде.
func Parse(s string) (string, error) {
	const op = "day.Parse"
	t, err := time.Parse(Layout, s)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return t.Format(Layout), nil
}
