// Package ratelimit реализует ограничение частоты запросов по фиксированному окну.
//
// Состав пакета:
//
//   - FixedWindow: счетчик запросов на ключ клиента, сбрасывается целиком по истечении окна
//   - Middleware: HTTP-обертка, извлекает ключ, отвечает 429 и ставит X-RateLimit-* заголовки
//   - StatsStore: запись решений (память или Redis), best-effort
//
// Окно фиксированное: у границы окна допускается до 2*limit запросов подряд.
// Записи по ключам не удаляются, их число растет с числом клиентов.
package ratelimit
