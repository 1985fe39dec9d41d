package dieselvk

import (
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

//Error is a failed Vulkan call. Op names the call, Frame the engine
//function that issued it.
type Error struct {
	Result vk.Result
	Op     string
	Frame  string
}

func (e *Error) Error() string {
	if e.Frame == "" {
		return fmt.Sprintf("vulkan error: %s: %s (%d)", e.Op, vk.Error(e.Result).Error(), e.Result)
	}
	return fmt.Sprintf("vulkan error: %s: %s (%d) on %s", e.Op, vk.Error(e.Result).Error(), e.Result, e.Frame)
}

func isError(ret vk.Result) bool {
	return ret != vk.Success
}

//NewError wraps a non success result, it returns nil on vk.Success
func NewError(ret vk.Result, op string) error {
	if !isError(ret) {
		return nil
	}
	e := &Error{Result: ret, Op: op}
	if pc, _, _, ok := runtime.Caller(1); ok {
		e.Frame = newStackFrame(pc)
	}
	return e
}

//ResultOf digs the Vulkan result out of a wrapped error
func ResultOf(err error) (vk.Result, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Result, true
	}
	return vk.Success, false
}

func newStackFrame(pc uintptr) string {
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return "unknown"
	}
	file, line := fn.FileLine(pc)
	return fmt.Sprintf("%s (%s:%d)", fn.Name(), file, line)
}

//Fatal runs the finalizers in order then exits through the fatal log
func Fatal(err error, finalizers ...func()) {
	if err != nil {
		for _, fn := range finalizers {
			fn()
		}

		file, err2 := os.OpenFile("fatal_log.txt", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
		if err2 != nil {
			log.Fatalf("%+v", err)
		}
		fatal_log := log.New(file, "FATAL: ", log.Ldate|log.Ltime|log.Lshortfile)
		fatal_log.Printf("%+v", err)
		log.Fatalf("%+v", err)
	}
}

func orPanic(err error) {
	if err != nil {
		panic(err)
	}
}

//checkErr recovers a panic raised by orPanic into the named error result
func checkErr(err *error) {
	if v := recover(); v != nil {
		if e, ok := v.(error); ok {
			*err = e
			return
		}
		*err = errors.Errorf("%+v", v)
	}
}
