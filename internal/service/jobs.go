package service

import "math/rand"

type workJob struct {
	name   string
	minPay int64
	maxPay int64
}

// The payout table for the work command. Earnings are drawn uniformly from
// [minPay, maxPay] per invocation.
var workJobs = []workJob{
	{name: "developer", minPay: 50, maxPay: 150},
	{name: "courier", minPay: 30, maxPay: 80},
	{name: "streamer", minPay: 20, maxPay: 200},
	{name: "designer", minPay: 40, maxPay: 120},
	{name: "chef", minPay: 35, maxPay: 90},
}

func drawJob(randIntn func(n int) int) (string, int64) {
	if randIntn == nil {
		randIntn = rand.Intn
	}
	job := workJobs[randIntn(len(workJobs))]
	earnings := job.minPay + int64(randIntn(int(job.maxPay-job.minPay)+1))
	return job.name, earnings
}
