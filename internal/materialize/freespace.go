package materialize

import (
	"os"

	"github.com/dustin/go-humanize"
	"golang.org/x/sys/unix"

	"photosift/internal/cluster"
	"photosift/internal/logging"
	"photosift/internal/services"
)

// checkFreeSpace refuses to start copying when the output filesystem cannot
// hold the full batch. An unreadable filesystem status only logs a warning;
// per-file copy errors will surface any real problem.
func (m *Materializer) checkFreeSpace(groups []cluster.Group) error {
	var required uint64
	for _, group := range groups {
		for _, source := range group {
			if info, err := os.Stat(source); err == nil {
				required += uint64(info.Size())
			}
		}
	}

	var st unix.Statfs_t
	if err := unix.Statfs(m.outputRoot, &st); err != nil {
		m.logger.Warn("cannot determine free space", logging.String("path", m.outputRoot), logging.Error(err))
		return nil
	}
	available := uint64(st.Bavail) * uint64(st.Bsize)
	if available < required {
		return services.Wrap(services.ErrValidation, "materialize", "check free space",
			"Output filesystem has "+humanize.Bytes(available)+" free but the groups need "+humanize.Bytes(required), nil)
	}
	return nil
}
