package utils

import (
	"io/ioutil"
	"path"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var sysPath = "/proc/sys"

// SysCtlRead reads value from /proc/sys/${item}
func SysCtlRead(item string) (string, error) {
	filePath := path.Join(sysPath, item)
	content, err := ioutil.ReadFile(filePath)
	if err != nil {
		return "", errors.Wrap(err, "failed to read file "+filePath)
	}
	valueStr := strings.Trim(string(content), " \n\t")
	return valueStr, nil
}

// SysCtlReadInt reads an integer value from /proc/sys/${item}
func SysCtlReadInt(item string) (int64, error) {
	valueStr, err := SysCtlRead(item)
	if err != nil {
		return 0, err
	}
	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid value of %s", item)
	}
	return value, nil
}
