package service

import (
	"regexp"
	"strconv"
	"time"

	"github.com/michaelos02/mroFormLimiter/internal/model"
	apperrors "github.com/michaelos02/mroFormLimiter/pkg/errors"
)

// 提交数量上限范围
const (
	MinSubmissionLimit = 1
	MaxSubmissionLimit = 10000
)

const (
	dateLayout     = "2006-01-02"
	timeLayout     = "15:04"
	deadlineLayout = dateLayout + " " + timeLayout
)

var timeOfDayPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// ValidateClosingSettings 按顺序校验设置，返回第一个失败项
// 日期只与 now 所在时区的当天比较，具体时刻留给安装截止触发器时判断
func ValidateClosingSettings(settings model.ClosingSettings, now time.Time) error {
	if !settings.HasDeadline() && !settings.HasMaxCount() {
		return apperrors.NewValidationError("", "at least one limit required")
	}

	if settings.HasDeadline() {
		date, err := time.ParseInLocation(dateLayout, settings.DeadlineDate, now.Location())
		if err != nil {
			return apperrors.NewValidationError(model.SettingKeyDate, "invalid date format")
		}
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		if date.Before(today) {
			return apperrors.NewValidationError(model.SettingKeyDate, "date cannot be in the past")
		}
	}

	if settings.DeadlineTime != "" && !timeOfDayPattern.MatchString(settings.DeadlineTime) {
		return apperrors.NewValidationError(model.SettingKeyTime, "invalid time format")
	}
	if settings.HasDeadline() && settings.DeadlineTime == "" {
		return apperrors.NewValidationError(model.SettingKeyTime, "time required when date is set")
	}

	if settings.HasMaxCount() {
		n, err := strconv.Atoi(settings.MaxCount)
		if err != nil || n < MinSubmissionLimit || n > MaxSubmissionLimit {
			return apperrors.NewValidationError(model.SettingKeyNumber, "limit must be between 1 and 10000")
		}
	}

	return nil
}
