package restclient

// ProgressReporter receives transfer progress ticks. Totals may be zero
// when the transport does not know the size in advance. Returning any
// non-zero value aborts the in-flight transfer, which the caller sees as a
// transport failure in the resulting Response.
type ProgressReporter interface {
	UpdateTransferInfo(downloadTotal, downloaded, uploadTotal, uploaded int64) int
}

// ProgressFunc adapts a plain function to the ProgressReporter capability.
type ProgressFunc func(downloadTotal, downloaded, uploadTotal, uploaded int64) int

func (f ProgressFunc) UpdateTransferInfo(downloadTotal, downloaded, uploadTotal, uploaded int64) int {
	return f(downloadTotal, downloaded, uploadTotal, uploaded)
}

// reportProgress bridges a reporter to the transport's progress hook.
// A nil reporter yields a hook that always continues.
func reportProgress(r ProgressReporter) ProgressFunc {
	return func(downloadTotal, downloaded, uploadTotal, uploaded int64) int {
		if r == nil {
			return 0
		}
		return r.UpdateTransferInfo(downloadTotal, downloaded, uploadTotal, uploaded)
	}
}
