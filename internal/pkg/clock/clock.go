package clock

import "time"

// Clock — абстракция времени, чтобы тесты были детерминированны
type Clock interface {
	Now() time.Time
}

// realClock — prod реализация: текущее время
type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// NewRealClock - экспортируем фабрику, чтобы внешний пакет мог получить Clock
func NewRealClock() Clock {
	return realClock{}
}

// Fixed — часы, которые всегда показывают одно и то же время (для тестов).
type Fixed time.Time

func (f Fixed) Now() time.Time { return time.Time(f) }
