// Package fuzztests houses Go fuzz harnesses for the fence scanner and the two
// rewrite passes. They guard against panics on arbitrary documents and check
// that annotate is idempotent and that repair converges.
//
// Назначение: прогонять произвольные байты через fence.Scanner, annotate и
// repair и проверять инварианты спанов.
//
// Не делает: запись файлов, выполнение CLI.
//
// Зависимости: internal/fence, internal/annotate, internal/repair,
// internal/testkit.
package fuzztests
