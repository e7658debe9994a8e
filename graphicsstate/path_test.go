package graphicsstate

import (
	"testing"
)

// Path tests

func TestNewPath(t *testing.T) {
	p := NewPath()
	if p == nil {
		t.Fatal("NewPath returned nil")
	}
	if len(p.Segments) != 0 {
		t.Errorf("Expected empty segments, got %d", len(p.Segments))
	}
	if p.HasCurrentPoint {
		t.Error("Expected HasCurrentPoint to be false")
	}
}

func TestPath_MoveTo(t *testing.T) {
	p := NewPath()
	p.MoveTo(100, 200)

	if len(p.Segments) != 1 {
		t.Fatalf("Expected 1 segment, got %d", len(p.Segments))
	}
	if p.Segments[0].Type != PathMoveTo {
		t.Error("Expected PathMoveTo type")
	}
	if !p.HasCurrentPoint {
		t.Error("Expected HasCurrentPoint to be true")
	}
	if p.CurrentPoint.X != 100 || p.CurrentPoint.Y != 200 {
		t.Errorf("Expected current point (100, 200), got (%f, %f)", p.CurrentPoint.X, p.CurrentPoint.Y)
	}
	if p.SubpathStart.X != 100 || p.SubpathStart.Y != 200 {
		t.Errorf("Expected subpath start (100, 200), got (%f, %f)", p.SubpathStart.X, p.SubpathStart.Y)
	}
}

func TestPath_LineTo(t *testing.T) {
	t.Run("with current point", func(t *testing.T) {
		p := NewPath()
		p.MoveTo(0, 0)
		p.LineTo(100, 0)

		if len(p.Segments) != 2 {
			t.Fatalf("Expected 2 segments, got %d", len(p.Segments))
		}
		if p.Segments[1].Type != PathLineTo {
			t.Error("Expected PathLineTo type")
		}
		if p.CurrentPoint.X != 100 || p.CurrentPoint.Y != 0 {
			t.Errorf("Expected current point (100, 0), got (%f, %f)", p.CurrentPoint.X, p.CurrentPoint.Y)
		}
	})

	t.Run("without current point becomes moveto", func(t *testing.T) {
		p := NewPath()
		p.LineTo(100, 200)

		if len(p.Segments) != 1 {
			t.Fatalf("Expected 1 segment, got %d", len(p.Segments))
		}
		if p.Segments[0].Type != PathMoveTo {
			t.Error("Expected PathMoveTo type (lineto should become moveto)")
		}
		if !p.HasCurrentPoint {
			t.Error("Expected HasCurrentPoint to be true")
		}
	})
}

func TestPath_CurveTo(t *testing.T) {
	p := NewPath()
	p.MoveTo(0, 0)
	p.CurveTo(10, 20, 30, 40, 50, 60)

	if len(p.Segments) != 2 {
		t.Fatalf("Expected 2 segments, got %d", len(p.Segments))
	}
	if p.Segments[1].Type != PathCurveTo {
		t.Error("Expected PathCurveTo type")
	}
	if len(p.Segments[1].Points) != 3 {
		t.Errorf("Expected 3 control points, got %d", len(p.Segments[1].Points))
	}
	if p.CurrentPoint.X != 50 || p.CurrentPoint.Y != 60 {
		t.Errorf("Expected current point (50, 60), got (%f, %f)", p.CurrentPoint.X, p.CurrentPoint.Y)
	}
}

func TestPath_CurveToV(t *testing.T) {
	p := NewPath()
	p.MoveTo(0, 0)
	p.CurveToV(20, 30, 40, 50)

	if len(p.Segments) != 2 {
		t.Fatalf("Expected 2 segments, got %d", len(p.Segments))
	}
	// CurveToV uses current point as first control point
	if p.Segments[1].Points[0].X != 0 || p.Segments[1].Points[0].Y != 0 {
		t.Error("First control point should be current point")
	}
	if p.CurrentPoint.X != 40 || p.CurrentPoint.Y != 50 {
		t.Errorf("Expected current point (40, 50), got (%f, %f)", p.CurrentPoint.X, p.CurrentPoint.Y)
	}
}

func TestPath_CurveToY(t *testing.T) {
	p := NewPath()
	p.MoveTo(0, 0)
	p.CurveToY(10, 20, 40, 50)

	if len(p.Segments) != 2 {
		t.Fatalf("Expected 2 segments, got %d", len(p.Segments))
	}
	// CurveToY uses end point as second control point
	if p.Segments[1].Points[1].X != 40 || p.Segments[1].Points[1].Y != 50 {
		t.Error("Second control point should be end point")
	}
	if p.CurrentPoint.X != 40 || p.CurrentPoint.Y != 50 {
		t.Errorf("Expected current point (40, 50), got (%f, %f)", p.CurrentPoint.X, p.CurrentPoint.Y)
	}
}

func TestPath_ClosePath(t *testing.T) {
	p := NewPath()
	p.MoveTo(0, 0)
	p.LineTo(100, 0)
	p.LineTo(100, 100)
	p.ClosePath()

	if len(p.Segments) != 4 {
		t.Fatalf("Expected 4 segments, got %d", len(p.Segments))
	}
	if p.Segments[3].Type != PathClosePath {
		t.Error("Expected PathClosePath type")
	}
	// Current point should return to subpath start
	if p.CurrentPoint.X != 0 || p.CurrentPoint.Y != 0 {
		t.Errorf("Expected current point (0, 0), got (%f, %f)", p.CurrentPoint.X, p.CurrentPoint.Y)
	}
}

func TestPath_Rectangle(t *testing.T) {
	p := NewPath()
	p.Rectangle(10, 20, 100, 50)

	// Rectangle creates: moveto + 3 lineto + closepath = 5 segments
	if len(p.Segments) != 5 {
		t.Fatalf("Expected 5 segments, got %d", len(p.Segments))
	}

	// Check the sequence
	if p.Segments[0].Type != PathMoveTo {
		t.Error("Expected PathMoveTo first")
	}
	for i := 1; i <= 3; i++ {
		if p.Segments[i].Type != PathLineTo {
			t.Errorf("Expected PathLineTo at index %d", i)
		}
	}
	if p.Segments[4].Type != PathClosePath {
		t.Error("Expected PathClosePath last")
	}
}

func TestPath_Clear(t *testing.T) {
	p := NewPath()
	p.MoveTo(0, 0)
	p.LineTo(100, 100)
	p.Clear()

	if len(p.Segments) != 0 {
		t.Errorf("Expected 0 segments after clear, got %d", len(p.Segments))
	}
	if p.HasCurrentPoint {
		t.Error("Expected HasCurrentPoint to be false after clear")
	}
}

func TestPath_IsEmpty(t *testing.T) {
	p := NewPath()
	if !p.IsEmpty() {
		t.Error("Expected new path to be empty")
	}

	p.MoveTo(0, 0)
	if p.IsEmpty() {
		t.Error("Expected path with segments to not be empty")
	}
}

func TestPath_CurveOperatorsWithoutCurrentPoint(t *testing.T) {
	p := NewPath()

	// CurveToV without current point should be no-op
	p.CurveToV(10, 20, 30, 40)
	if len(p.Segments) != 0 {
		t.Error("CurveToV without current point should be no-op")
	}

	// CurveToY without current point should be no-op
	p.CurveToY(10, 20, 30, 40)
	if len(p.Segments) != 0 {
		t.Error("CurveToY without current point should be no-op")
	}

	// ClosePath without current point should be no-op
	p.ClosePath()
	if len(p.Segments) != 0 {
		t.Error("ClosePath without current point should be no-op")
	}
}
