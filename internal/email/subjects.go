package email

const (
	subjectProjectCompletedFmt = "Store opened: %s (%s)"
	subjectProjectOverdueFmt   = "Overdue: %s is %d days past its opening date"
)
