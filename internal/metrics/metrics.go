package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 服务级 Prometheus 指标
type Metrics struct {
	registry       *prometheus.Registry
	BrokerAttempts *prometheus.CounterVec
	LLMRequests    *prometheus.CounterVec
	Commands       *prometheus.CounterVec
}

// New 在独立 registry 上注册指标，测试中可重复创建
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		BrokerAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "broker_attempts_total",
			Help: "Integration broker call attempts by operation, variant and outcome.",
		}, []string{"operation", "variant", "outcome"}),
		LLMRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "llm_requests_total",
			Help: "Language model requests by outcome.",
		}, []string{"outcome"}),
		Commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "commands_total",
			Help: "Parsed free-text commands by intent kind.",
		}, []string{"kind"}),
	}
	reg.MustRegister(
		m.BrokerAttempts,
		m.LLMRequests,
		m.Commands,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler /metrics 暴露端点
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveAttempt 记录一次代理调用；m 为 nil 时忽略
func (m *Metrics) ObserveAttempt(operation, variant string, ok bool) {
	if m == nil {
		return
	}
	m.BrokerAttempts.WithLabelValues(operation, variant, Outcome(ok)).Inc()
}

// ObserveLLM 记录一次大模型请求
func (m *Metrics) ObserveLLM(ok bool) {
	if m == nil {
		return
	}
	m.LLMRequests.WithLabelValues(Outcome(ok)).Inc()
}

// ObserveCommand 记录一次命令解析
func (m *Metrics) ObserveCommand(kind string) {
	if m == nil {
		return
	}
	m.Commands.WithLabelValues(kind).Inc()
}

// Outcome 将布尔结果转为标签值
func Outcome(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
