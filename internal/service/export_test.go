package service

import "time"

func SetClock(serv *HabitLogsService, now func() time.Time) {
	serv.now = now
}
