package orbsim

import (
	"math"
	"os"

	kitlog "github.com/go-kit/kit/log"
)

// CollisionEvent identifies a moving body that reached the central body.
type CollisionEvent struct {
	Body     *Body
	Central  *Body
	Distance float64 // km at detection
}

// CollisionResolver checks moving bodies against the central body after each
// true integration step. Secondary to secondary collisions are not checked.
type CollisionResolver struct {
	logger kitlog.Logger
}

// NewCollisionResolver returns a resolver logging through the given logger.
func NewCollisionResolver(logger kitlog.Logger) *CollisionResolver {
	if logger == nil {
		logger = kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	}
	return &CollisionResolver{logger: kitlog.With(logger, "subsys", "collision")}
}

// Check reports whether the body currently intersects the central body.
// A separation exactly equal to the sum of both radii counts as a hit.
func (cr *CollisionResolver) Check(b, central *Body) (CollisionEvent, bool) {
	d := norm(sub(b.State().R, central.State().R))
	if d <= b.Radius+central.Radius {
		cr.logger.Log("level", "critical", "collided", central.Name, "body", b.Name, "d(km)", d)
		return CollisionEvent{Body: b, Central: central, Distance: d}, true
	}
	return CollisionEvent{}, false
}

// ClipToCentral truncates a forecast at the first segment entering the sphere
// of the given radius about center: the entry point is appended and all
// subsequent points are dropped.
func ClipToCentral(points []Vec3, center Vec3, radius float64) []Vec3 {
	for i := 0; i+1 < len(points); i++ {
		if hit, ok := segmentSphere(points[i], points[i+1], center, radius); ok {
			clipped := make([]Vec3, i+1, i+2)
			copy(clipped, points[:i+1])
			return append(clipped, hit)
		}
	}
	return points
}

// segmentSphere returns the first intersection of segment ab with the sphere.
func segmentSphere(a, b, center Vec3, radius float64) (Vec3, bool) {
	d := sub(b, a)
	f := sub(a, center)
	qa := normSq(d)
	if qa == 0 {
		return Vec3{}, false
	}
	qb := 2 * dot(f, d)
	qc := normSq(f) - radius*radius
	disc := qb*qb - 4*qa*qc
	if disc < 0 {
		return Vec3{}, false
	}
	sq := math.Sqrt(disc)
	for _, t := range []float64{(-qb - sq) / (2 * qa), (-qb + sq) / (2 * qa)} {
		if t >= 0 && t <= 1 {
			return add(a, scale(t, d)), true
		}
	}
	return Vec3{}, false
}
