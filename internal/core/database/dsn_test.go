package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeMySQLDSN(t *testing.T) {
	cases := []struct {
		name, in, user, pass, want string
	}{
		{
			name: "native passes through",
			in:   "u:p@tcp(db:3306)/tasks?parseTime=true",
			want: "u:p@tcp(db:3306)/tasks?parseTime=true",
		},
		{
			name: "url form",
			in:   "mysql://u:p@db:3306/tasks",
			want: "u:p@tcp(db:3306)/tasks?charset=utf8mb4&parseTime=true",
		},
		{
			name: "jdbc keys translated",
			in:   "jdbc:mysql://db:3306/tasks?useUnicode=true&characterEncoding=utf8&useSSL=false&serverTimezone=UTC",
			user: "root", pass: "pw",
			want: "root:pw@tcp(db:3306)/tasks?charset=utf8&loc=UTC&parseTime=true&tls=false",
		},
		{
			name: "override replaces url credentials",
			in:   "mysql://a:b@db/tasks?user=c&password=d",
			user: "e",
			want: "e:d@tcp(db)/tasks?charset=utf8mb4&parseTime=true",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, normalizeMySQLDSN(tc.in, tc.user, tc.pass))
		})
	}
}

func TestMaskDSN(t *testing.T) {
	assert.Equal(t, "root:****@tcp(db:3306)/tasks", maskDSN("root:secret@tcp(db:3306)/tasks"))
	assert.Equal(t, "file:x.db", maskDSN("file:x.db"))
}

func TestNewGormUnsupported(t *testing.T) {
	_, err := NewGorm(Opts{Driver: "oracle"})
	assert.ErrorIs(t, err, ErrUnsupportedDriver)
}
