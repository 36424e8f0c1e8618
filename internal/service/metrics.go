package service

import "github.com/prometheus/client_golang/prometheus"

var (
	signupsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wishcircle_signups_total",
		Help: "Users created via signup",
	})
	notificationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wishcircle_notifications_created_total",
		Help: "Notifications fanned out to friends on wishlist additions",
	})
	scorePointsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wishcircle_score_points_total",
		Help: "Score points awarded",
	}, []string{"reason"})
)

func init() { prometheus.MustRegister(signupsTotal, notificationsTotal, scorePointsTotal) }
