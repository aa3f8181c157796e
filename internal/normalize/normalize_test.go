package normalize

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		want  Date
		wantO bool
	}{
		{"korean full", "2025년 1월 3일", Date{2025, 1, 3}, true},
		{"korean spaced", "1982년  11월  5일", Date{1982, 11, 5}, true},
		{"dotted", "2025.1.3", Date{2025, 1, 3}, true},
		{"iso", "2025-01-03", Date{2025, 1, 3}, true},
		{"year month only", "2025년 3월", Date{2025, 3, 1}, true},
		{"year only", "2025", Date{2025, 1, 1}, true},
		{"with trailing age", "1982년 11월 5일(42세)", Date{1982, 11, 5}, true},
		{"fullwidth paren", "1995년 3월 1일（만 30세）", Date{1995, 3, 1}, true},
		{"empty", "", Date{}, false},
		{"garbage", "미정", Date{}, false},
		{"bad month", "2025-13-01", Date{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.in)
			if ok != tt.wantO {
				t.Fatalf("ParseDate(%q) ok = %v, want %v", tt.in, ok, tt.wantO)
			}
			if ok && got != tt.want {
				t.Errorf("ParseDate(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSplitPeriod(t *testing.T) {
	tests := []struct {
		name        string
		in          string
		first, last string
	}{
		{"two lines", "2025.1.3\n2025.3.14", "2025.01.03", "2025.03.14"},
		{"tilde", "2025.1.3 ~ 2025.3.14", "2025.01.03", "2025.03.14"},
		{"en dash", "2025.1.3 – 2025.3.14", "2025.01.03", "2025.03.14"},
		{"single", "2025.1.3", "2025.01.03", ""},
		{"no date", "방영 예정", "", ""},
		{"empty", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, e := SplitPeriod(tt.in)
			if f != tt.first || e != tt.last {
				t.Errorf("SplitPeriod(%q) = (%q,%q), want (%q,%q)", tt.in, f, e, tt.first, tt.last)
			}
		})
	}
}

func TestStatus(t *testing.T) {
	today := time.Date(2025, 6, 15, 10, 0, 0, 0, time.Local)
	tests := []struct {
		name       string
		first, end string
		want       string
	}{
		{"upcoming", "2025.07.01", "2025.09.01", StatusUpcoming},
		{"airing", "2025.06.01", "2025.08.01", StatusAiring},
		{"ended", "2025.01.03", "2025.03.14", StatusEnded},
		{"start only future", "2025.07.01", "", StatusUpcoming},
		{"start only past", "2025.06.01", "", StatusAiring},
		{"airing on end day", "2025.06.01", "2025.06.15", StatusAiring},
		{"no start", "", "2025.08.01", ""},
		{"nothing", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Status(tt.first, tt.end, today); got != tt.want {
				t.Errorf("Status(%q,%q) = %q, want %q", tt.first, tt.end, got, tt.want)
			}
		})
	}
}

func TestTimeRange(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"pm range inherited right", "오후 10시30분 ~ 12시", "22:30~00:00"},
		{"pm both sides", "오후 9시 ~ 오후 11시", "21:00~23:00"},
		{"explicit noon", "오후 12시", "12:00"},
		{"midnight word", "밤 12시", "00:00"},
		{"am single", "오전 7시 50분", "07:50"},
		{"evening token", "저녁 8시 30분", "20:30"},
		{"colon pair with context", "오후 10:10 ~ 11:20", "22:10~23:20"},
		{"bare colon single", "21:30", "21:30"},
		{"colon pm sentence", "매주 수요일 오후 9:00", "21:00"},
		{"right context inherited left", "10시 30분 ~ 오후 12시", "22:30~12:00"},
		{"dash separator", "오후 10시 - 11시", "22:00~23:00"},
		{"no clock", "매주 금요일 공개", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TimeRange(tt.in); got != tt.want {
				t.Errorf("TimeRange(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExtractDays(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"full words", "매주 수요일, 목요일", []string{"수요일", "목요일"}},
		{"middle dot", "수·목 오후 10시", []string{"수요일", "목요일"}},
		{"slash", "토/일 오후 9시", []string{"토요일", "일요일"}},
		{"and word", "금 및 토", []string{"금요일", "토요일"}},
		{"dedup", "월요일, 월요일", []string{"월요일"}},
		{"none", "오후 10시", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractDays(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("ExtractDays(%q) = %v, want %v", tt.in, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ExtractDays(%q)[%d] = %q, want %q", tt.in, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestRuntimeMinutes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
		ok   bool
	}{
		{"hour and minutes", "1시간 10분", 70, true},
		{"minutes only", "75분", 75, true},
		{"hours only", "2시간", 120, true},
		{"spaced", "1 시간 5 분", 65, true},
		{"weekday poisons", "수요일 70분", 0, false},
		{"range poisons", "70분~80분", 0, false},
		{"colon poisons", "22:00 70분", 0, false},
		{"no unit", "70", 0, false},
		{"empty", "", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := RuntimeMinutes(tt.in)
			if ok != tt.ok || got != tt.want {
				t.Errorf("RuntimeMinutes(%q) = (%d,%v), want (%d,%v)", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestInferRuntime(t *testing.T) {
	tests := []struct {
		name      string
		start, rt string
		want      string
	}{
		{"label wins", "22:30~00:00", "70분", "70분"},
		{"midnight wrap", "22:30~00:00", "", "90분"},
		{"plain range", "21:00~22:10", "", "70분"},
		{"below guard", "21:00~21:10", "", ""},
		{"above guard", "10:00~18:00", "", ""},
		{"not a range", "21:30", "", ""},
		{"empty", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InferRuntime(tt.start, tt.rt, 40, 120); got != tt.want {
				t.Errorf("InferRuntime(%q,%q) = %q, want %q", tt.start, tt.rt, got, tt.want)
			}
		})
	}
}

func TestRuntimeLabel(t *testing.T) {
	tests := []struct{ in, want string }{
		{"70", "70분"},
		{"70분", "70분"},
		{"70 분", "70분"},
		{"70분(예정)", "70분"},
		{"70 min", "70분"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := RuntimeLabel(tt.in); got != tt.want {
			t.Errorf("RuntimeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEpisodeNo(t *testing.T) {
	tests := []struct{ in, want string }{
		{"1", "1화"},
		{"제 3 회", "3화"},
		{"12화", "12화"},
		{"05", "5화"},
		{"최종화", "최종화"},
		{"스페셜", "스페셜"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := EpisodeNo(tt.in); got != tt.want {
			t.Errorf("EpisodeNo(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEpisodeCount(t *testing.T) {
	tests := []struct{ in, want string }{
		{"16부작", "16부작"},
		{"16", "16부작"},
		{"총 12회", "12부작"},
		{"미정", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := EpisodeCount(tt.in); got != tt.want {
			t.Errorf("EpisodeCount(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStripBrackets(t *testing.T) {
	tests := []struct{ in, want string }{
		{"《나의 해방일지》", "나의 해방일지"},
		{"〈미스터 션샤인〉", "미스터 션샤인"},
		{"«오징어 게임»", "오징어 게임"},
		{"「도깨비」", "도깨비"},
		{"『비밀의 숲』", "비밀의 숲"},
		{"<<더 글로리>>", "더 글로리"},
		{"<눈물의  여왕>", "눈물의 여왕"},
		{"무브 투 헤븐", "무브 투 헤븐"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := StripBrackets(tt.in); got != tt.want {
			t.Errorf("StripBrackets(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCleanText(t *testing.T) {
	tests := []struct{ in, want string }{
		{"이정재[1]", "이정재"},
		{"분량  70분\x00", "분량 70분"},
		{"  여러   칸  ", "여러 칸"},
		{"각주[주 3] 제거", "각주 제거"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := CleanText(tt.in); got != tt.want {
			t.Errorf("CleanText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestKey(t *testing.T) {
	// The join key collapses whitespace but preserves case and Hangul.
	if got := Key("  무브  투   헤븐 "); got != "무브 투 헤븐" {
		t.Errorf("Key = %q", got)
	}
	if got := Key("The Glory"); got != "The Glory" {
		t.Errorf("Key preserved case: %q", got)
	}
}

func TestSearchTitle(t *testing.T) {
	tests := []struct{ in, want string }{
		{"폭싹 속았수다 (드라마)", "폭싹 속았수다"},
		{"“선의의 경쟁”", "선의의 경쟁"},
		{"조명가게.", "조명가게"},
	}
	for _, tt := range tests {
		if got := SearchTitle(tt.in); got != tt.want {
			t.Errorf("SearchTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
