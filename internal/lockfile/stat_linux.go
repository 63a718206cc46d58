package lockfile

import (
	"time"

	"golang.org/x/sys/unix"
)

func statAtime(st *unix.Stat_t) time.Time {
	return time.Unix(st.Atim.Unix())
}

func statMtime(st *unix.Stat_t) time.Time {
	return time.Unix(st.Mtim.Unix())
}
