package restyutil

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/semconv/v1.13.0/httpconv"
	"go.opentelemetry.io/otel/trace"
)

type InstrumentOutput interface {
	Write(id string, contents string)
}

type instrumentCtx struct {
	output    InstrumentOutput
	tracer    trace.Tracer
	idcounter *uint64
}

// InstrumentClient wraps every request in a client span.
// `tracer` can be nil, it will default to a library name of "resty".
// `output` can also be nil, in which case exchanges are not written anywhere.
func InstrumentClient(client *resty.Client, tracer trace.Tracer, output InstrumentOutput) {
	if tracer == nil {
		tracer = otel.Tracer("resty")
	}

	var idcounter uint64
	i := instrumentCtx{output: output, tracer: tracer, idcounter: &idcounter}
	client.OnBeforeRequest(i.onBeforeRequest)
	client.OnAfterResponse(i.onAfterResponse)
	client.OnError(i.onError)
}

type exchangeKeyType int

var exchangeKey exchangeKeyType

type exchange struct {
	id   string
	span trace.Span
}

func (i instrumentCtx) onBeforeRequest(_ *resty.Client, req *resty.Request) error {
	ctx, span := i.tracer.Start(
		req.Context(),
		fmt.Sprintf("http %s", req.Method),
		trace.WithSpanKind(trace.SpanKindClient),
	)
	id := strconv.FormatUint(atomic.AddUint64(i.idcounter, 1), 10)
	req.SetContext(context.WithValue(ctx, exchangeKey, exchange{id: id, span: span}))
	return nil
}

func (i instrumentCtx) onAfterResponse(_ *resty.Client, res *resty.Response) error {
	ex, ok := res.Request.Context().Value(exchangeKey).(exchange)
	if !ok {
		return nil
	}
	defer ex.span.End()

	// RawRequest is still nil in onBeforeRequest
	if res.Request.RawRequest != nil {
		ex.span.SetAttributes(httpconv.ClientRequest(res.Request.RawRequest)...)
	}
	if res.RawResponse != nil {
		ex.span.SetAttributes(httpconv.ClientResponse(res.RawResponse)...)
	}
	if res.StatusCode() >= 400 {
		ex.span.SetStatus(codes.Error, res.Status())
	}

	if i.output != nil {
		i.output.Write(ex.id, FormatExchange(res))
	}
	return nil
}

func (i instrumentCtx) onError(req *resty.Request, err error) {
	ex, ok := req.Context().Value(exchangeKey).(exchange)
	if !ok {
		return
	}
	ex.span.RecordError(err)
	ex.span.SetStatus(codes.Error, err.Error())
	ex.span.End()

	if i.output != nil {
		i.output.Write(ex.id, fmt.Sprintf("%s %s\n\nfailed: %s", req.Method, req.URL, err.Error()))
	}
}
