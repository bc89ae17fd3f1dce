package validate

const tarjetaLen = 16

// Tarjeta valida un número de tarjeta de 16 dígitos mediante el algoritmo
// de Luhn: de derecha a izquierda se duplica un dígito de cada dos
// (restando 9 cuando el resultado supera 9) y la suma total debe ser
// múltiplo de 10.
func Tarjeta(numero string) bool {
	if len(numero) != tarjetaLen {
		return false
	}

	sum := 0
	double := false
	for i := len(numero) - 1; i >= 0; i-- {
		c := numero[i]
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}
