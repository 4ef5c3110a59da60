package strings

import (
	"strings"
	"testing"
	"time"
	"unsafe"
)

func TestBytesToString(t *testing.T) {
	b := []byte("hello world")
	s := BytesToString(b)

	if s != "hello world" {
		t.Errorf("expected 'hello world', got '%s'", s)
	}

	// Test empty slice
	empty := BytesToString([]byte{})
	if empty != "" {
		t.Errorf("expected empty string, got '%s'", empty)
	}
}

func TestStringToBytes(t *testing.T) {
	s := "hello world"
	b := StringToBytes(s)

	if string(b) != "hello world" {
		t.Errorf("expected 'hello world', got '%s'", string(b))
	}

	// Test empty string
	empty := StringToBytes("")
	if empty != nil {
		t.Errorf("expected nil slice, got %v", empty)
	}
}

func TestBuilder(t *testing.T) {
	builder := NewBuilder(32)

	builder.WriteString("hello")
	builder.WriteByte(' ')
	builder.WriteString("world")

	result := builder.String()
	if result != "hello world" {
		t.Errorf("expected 'hello world', got '%s'", result)
	}

	if builder.Len() != 11 {
		t.Errorf("expected length 11, got %d", builder.Len())
	}
}

func TestBuilderGrow(t *testing.T) {
	builder := NewBuilder(2)
	initialCap := builder.Cap()

	builder.Grow(10)
	if builder.Cap() <= initialCap {
		t.Errorf("expected capacity to grow, initial: %d, after: %d", initialCap, builder.Cap())
	}
}

func TestBuilderReset(t *testing.T) {
	builder := NewBuilder(32)
	builder.WriteString("test")

	if builder.Len() != 4 {
		t.Errorf("expected length 4, got %d", builder.Len())
	}

	builder.Reset()
	if builder.Len() != 0 {
		t.Errorf("expected length 0 after reset, got %d", builder.Len())
	}
}

func TestPooledBuilder(t *testing.T) {
	builder := GetBuilder(Small)
	builder.WriteString("row-key")

	if builder.String() != "row-key" {
		t.Errorf("expected 'row-key', got '%s'", builder.String())
	}

	PutBuilder(builder, Small)

	// Get again - should be reset
	builder2 := GetBuilder(Small)
	if builder2.Len() != 0 {
		t.Errorf("expected reset builder, got length %d", builder2.Len())
	}
	PutBuilder(builder2, Small)
}

func TestConcat(t *testing.T) {
	tests := []struct {
		parts    []string
		expected string
	}{
		{[]string{"a", "b", "c"}, "abc"},
		{[]string{"hello"}, "hello"},
		{[]string{}, ""},
		{[]string{"a", "", "b"}, "ab"},
	}

	for _, test := range tests {
		result := Concat(test.parts...)
		if result != test.expected {
			t.Errorf("Concat(%v) = %q, expected %q", test.parts, result, test.expected)
		}
	}
}

func TestSprintf(t *testing.T) {
	result := Sprintf("col %s has %d missing cells", "age", 3)
	if result != "col age has 3 missing cells" {
		t.Errorf("unexpected result: %q", result)
	}

	// No args passes the format through
	if Sprintf("plain") != "plain" {
		t.Error("expected format passthrough with no args")
	}
}

func TestIntern(t *testing.T) {
	intern := NewIntern()

	s1 := intern.Get("hello")
	s2 := intern.Get("hello")

	// Should return the same string instance
	if s1 != s2 {
		t.Error("interned strings should be equal")
	}

	// Check that they are actually the same underlying string
	if unsafe.StringData(s1) != unsafe.StringData(s2) {
		t.Error("interned strings should share memory")
	}

	if intern.Size() != 1 {
		t.Errorf("expected size 1, got %d", intern.Size())
	}

	intern.Clear()
	if intern.Size() != 0 {
		t.Errorf("expected size 0 after clear, got %d", intern.Size())
	}
}

func TestSQLBuilder(t *testing.T) {
	tests := []struct {
		name     string
		build    func() string
		expected string
	}{
		{
			name: "postgres identifier quoting",
			build: func() string {
				sb := NewSQLBuilder(64)
				defer sb.Close()
				return sb.WriteQuery("SELECT ").WriteIdentifier("total_sales").
					WriteQuery(" FROM ").WriteIdentifier("data_limpia").String()
			},
			expected: `SELECT "total_sales" FROM "data_limpia"`,
		},
		{
			name: "mysql identifier quoting",
			build: func() string {
				sb := NewSQLBuilder(64).WithIdentifierQuote('`')
				defer sb.Close()
				return sb.WriteQuery("INSERT INTO ").WriteIdentifier("orders").String()
			},
			expected: "INSERT INTO `orders`",
		},
		{
			name: "embedded quote doubled",
			build: func() string {
				sb := NewSQLBuilder(32)
				defer sb.Close()
				return sb.WriteIdentifier(`odd"name`).String()
			},
			expected: `"odd""name"`,
		},
		{
			name: "string literal escaping",
			build: func() string {
				sb := NewSQLBuilder(32)
				defer sb.Close()
				return sb.WriteStringLiteral("it's").String()
			},
			expected: "'it''s'",
		},
		{
			name: "int and space",
			build: func() string {
				sb := NewSQLBuilder(32)
				defer sb.Close()
				return sb.WriteQuery("LIMIT").WriteSpace().WriteInt(100).String()
			},
			expected: "LIMIT 100",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.build()
			if result != tt.expected {
				t.Errorf("SQLBuilder test failed\nExpected: %s\nGot:      %s", tt.expected, result)
			}
		})
	}
}

func TestValueToString(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

	tests := []struct {
		value    interface{}
		expected string
	}{
		{nil, ""},
		{"text", "text"},
		{float64(3.5), "3.5"},
		{float64(42), "42"},
		{int(7), "7"},
		{int64(-9), "-9"},
		{true, "true"},
		{ts, "2024-03-01T12:30:00Z"},
		{[]byte("bytes"), "bytes"},
	}

	for _, test := range tests {
		result := ValueToString(test.value)
		if result != test.expected {
			t.Errorf("ValueToString(%v) = %q, expected %q", test.value, result, test.expected)
		}
	}
}

// Benchmarks to compare with standard library

func BenchmarkBytesToString(b *testing.B) {
	data := []byte("hello world this is a test string")

	b.Run("ZeroCopy", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			_ = BytesToString(data)
		}
	})

	b.Run("Standard", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			_ = string(data)
		}
	})
}

func BenchmarkStringBuilder(b *testing.B) {
	parts := []string{"id", "\x00", "name", "\x00", "total", "\x00", "fecha", "\x00", "country"}

	b.Run("ZeroCopyBuilder", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			builder := NewBuilder(64)
			for _, part := range parts {
				builder.WriteString(part)
			}
			_ = builder.String()
		}
	})

	b.Run("StandardBuilder", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			var builder strings.Builder
			for _, part := range parts {
				builder.WriteString(part)
			}
			_ = builder.String()
		}
	})
}
